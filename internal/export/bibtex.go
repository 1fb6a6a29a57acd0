// Package export converts bipartite references into ORCID work records.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/biporcid/internal/reference"
)

// ToBibTeX renders a reference as a BibTeX entry for the work's citation.
// The abstract is left out; it travels as the short description instead.
func ToBibTeX(ref reference.Reference) string {
	entryType := bibtexEntryType(ref)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, ref.ID))

	if len(ref.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(ref.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(ref.Title)))

	if ref.Venue != "" {
		fieldName := "journal"
		switch entryType {
		case "inproceedings":
			fieldName = "booktitle"
		case "misc":
			fieldName = "howpublished"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(ref.Venue)))
	}

	if ref.Published.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", ref.Published.Year))
	}
	if ref.Published.Month > 0 {
		b.WriteString(fmt.Sprintf("  month = {%d},\n", ref.Published.Month))
	}

	if ref.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", reference.NormalizeDOI(ref.DOI)))
	}
	if ref.ArXivID != "" {
		b.WriteString(fmt.Sprintf("  eprint = {%s},\n", NormalizeArXiv(ref.ArXivID)))
		b.WriteString("  archivePrefix = {arXiv},\n")
	}
	if ref.PMID != "" {
		b.WriteString(fmt.Sprintf("  pmid = {%s},\n", ref.PMID))
	}

	b.WriteString("}\n")

	return b.String()
}

// bibtexEntryType returns the BibTeX entry type for a reference.
func bibtexEntryType(ref reference.Reference) string {
	switch ref.Kind() {
	case reference.KindConference:
		return "inproceedings"
	case reference.KindPreprint:
		return "misc"
	default:
		return "article"
	}
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

var latexReplacer = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	return latexReplacer.Replace(s)
}
