package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matsen/biporcid/internal/reference"
)

func TestToBibTeX_BasicArticle(t *testing.T) {
	ref := reference.Reference{
		ID:    "Smith2026-ab",
		DOI:   "https://doi.org/10.1234/test",
		Title: "Test Paper Title",
		Authors: []reference.Author{
			{First: "John", Last: "Smith"},
			{First: "Jane", Last: "Doe"},
		},
		Abstract:  "This is the abstract",
		Venue:     "Nature",
		Published: reference.PublicationDate{Year: 2026, Month: 3},
		PMID:      "12345",
	}

	got := ToBibTeX(ref)

	assert.True(t, strings.HasPrefix(got, "@article{Smith2026-ab,\n"))
	assert.Contains(t, got, "author = {Smith, John and Doe, Jane}")
	assert.Contains(t, got, "title = {Test Paper Title}")
	assert.Contains(t, got, "journal = {Nature}")
	assert.Contains(t, got, "year = {2026}")
	assert.Contains(t, got, "month = {3}")
	assert.Contains(t, got, "doi = {10.1234/test}", "resolver prefix is stripped")
	assert.Contains(t, got, "pmid = {12345}")
	assert.NotContains(t, got, "abstract")
	assert.True(t, strings.HasSuffix(got, "}\n"))
}

func TestToBibTeX_Inproceedings(t *testing.T) {
	ref := reference.Reference{
		ID:        "Conference2026",
		Title:     "A Conference Paper",
		Authors:   []reference.Author{{First: "Alice", Last: "Brown"}},
		Venue:     "Proceedings of ICML 2026",
		Published: reference.PublicationDate{Year: 2026},
	}

	got := ToBibTeX(ref)

	assert.True(t, strings.HasPrefix(got, "@inproceedings{Conference2026,"))
	assert.Contains(t, got, "booktitle = {Proceedings of ICML 2026}")
}

func TestToBibTeX_Preprint(t *testing.T) {
	ref := reference.Reference{
		ID:        "Pre2025",
		Title:     "A Preprint",
		Venue:     "arXiv",
		ArXivID:   "arXiv:2501.01234",
		Published: reference.PublicationDate{Year: 2025},
	}

	got := ToBibTeX(ref)

	assert.True(t, strings.HasPrefix(got, "@misc{Pre2025,"))
	assert.Contains(t, got, "howpublished = {arXiv}")
	assert.Contains(t, got, "eprint = {2501.01234}")
	assert.Contains(t, got, "archivePrefix = {arXiv}")
}

func TestBibTeXEntryType(t *testing.T) {
	tests := []struct {
		venue string
		want  string
	}{
		{"Nature", "article"},
		{"Science", "article"},
		{"bioRxiv", "misc"},
		{"arXiv", "misc"},
		{"Proceedings of NeurIPS", "inproceedings"},
		{"International Conference on Machine Learning", "inproceedings"},
		{"Symposium on Theory of Computing", "inproceedings"},
		{"", "article"},
	}

	for _, tt := range tests {
		t.Run(tt.venue, func(t *testing.T) {
			assert.Equal(t, tt.want, bibtexEntryType(reference.Reference{Venue: tt.venue}))
		})
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []reference.Author
		want    string
	}{
		{"single author", []reference.Author{{First: "John", Last: "Smith"}}, "Smith, John"},
		{"two authors", []reference.Author{{First: "John", Last: "Smith"}, {First: "Jane", Last: "Doe"}}, "Smith, John and Doe, Jane"},
		{"only last name", []reference.Author{{Last: "Corporation"}}, "Corporation"},
		{"mixed authors", []reference.Author{{First: "John", Last: "Smith"}, {Last: "WHO"}}, "Smith, John and WHO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAuthors(tt.authors))
		})
	}
}

func TestEscapeLatex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"100% effective", `100\% effective`},
		{"A & B", `A \& B`},
		{"under_score", `under\_score`},
		{"{braces}", `\{braces\}`},
		{"test~tilde", `test\textasciitilde{}tilde`},
		{"x^2", `x\textasciicircum{}2`},
		{"A & B: $100 for {item} #1", `A \& B: \$100 for \{item\} \#1`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLatex(tt.input))
		})
	}
}

func TestToBibTeX_OptionalFields(t *testing.T) {
	ref := reference.Reference{
		ID:    "Minimal2026",
		Title: "Minimal Paper",
	}

	got := ToBibTeX(ref)

	for _, field := range []string{"author = ", "doi = ", "month = ", "year = ", "journal = ", "eprint = "} {
		assert.NotContains(t, got, field)
	}
	assert.Contains(t, got, "title = {Minimal Paper}")
}
