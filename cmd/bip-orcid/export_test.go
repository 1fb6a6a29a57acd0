package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/biporcid/internal/config"
	"github.com/matsen/biporcid/internal/export"
	"github.com/matsen/biporcid/internal/input"
	"github.com/matsen/biporcid/internal/reference"
	"github.com/matsen/biporcid/internal/storage"
	"github.com/matsen/biporcid/internal/work"
)

// fakeLookup serves DOIs from a map keyed by PDF path.
type fakeLookup struct {
	mu    sync.Mutex
	dois  map[string]string
	calls []string
}

func (f *fakeLookup) LookupDOI(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if doi, ok := f.dois[path]; ok {
		return doi, nil
	}
	return "", fmt.Errorf("no such PDF: %s", path)
}

func testRefs(n int) []reference.Reference {
	refs := make([]reference.Reference, n)
	for i := range refs {
		refs[i] = reference.Reference{
			ID:    fmt.Sprintf("Ref%03d", i),
			DOI:   fmt.Sprintf("10.1000/ref.%d", i),
			Title: fmt.Sprintf("Paper %d", i),
		}
	}
	return refs
}

func TestConvertReferences_KeepsOrder(t *testing.T) {
	refs := testRefs(40)

	records, skipped, err := convertReferences(context.Background(), zerolog.Nop(), refs, export.Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, len(refs))
	for i, r := range records {
		assert.Equal(t, refs[i].Title, r.Title())
	}
}

func TestConvertReferences_SkipsUnidentified(t *testing.T) {
	refs := testRefs(3)
	refs[1].DOI = ""

	records, skipped, err := convertReferences(context.Background(), zerolog.Nop(), refs, export.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ref001"}, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "Paper 0", records[0].Title())
	assert.Equal(t, "Paper 2", records[1].Title())
}

func TestConvertReferences_DOIFromPDF(t *testing.T) {
	refs := testRefs(3)
	refs[0].DOI = ""
	refs[0].PDFPath = "papers/ref0.pdf"
	refs[2].DOI = ""
	refs[2].PDFPath = "papers/missing.pdf"

	lookup := &fakeLookup{dois: map[string]string{"papers/ref0.pdf": "10.5555/from.pdf"}}

	records, skipped, err := convertReferences(context.Background(), zerolog.Nop(), refs, export.Options{}, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ref002"}, skipped)
	require.Len(t, records, 2)

	ids := records[0].ExternalIDs()
	require.NotEmpty(t, ids)
	assert.Equal(t, "10.5555/from.pdf", ids[0].Value)

	// References with identifiers never touch their PDF.
	assert.ElementsMatch(t, []string{"papers/ref0.pdf", "papers/missing.pdf"}, lookup.calls)
}

func TestConvertReferences_StopsOnError(t *testing.T) {
	refs := testRefs(2)
	refs[1].Title = ""

	_, _, err := convertReferences(context.Background(), zerolog.Nop(), refs, export.Options{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, work.ErrMissingRequiredField))
	assert.Contains(t, err.Error(), "Ref001")
	assert.Equal(t, ExitDataError, exitCodeFor(err))
}

func TestConvertReferences_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := convertReferences(ctx, zerolog.Nop(), testRefs(5), export.Options{}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRenderWorks(t *testing.T) {
	records, _, err := convertReferences(context.Background(), zerolog.Nop(), testRefs(2), export.Options{}, nil)
	require.NoError(t, err)

	t.Run("separate documents", func(t *testing.T) {
		out, err := renderWorks(records, false, work.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, "<?xml"))
		assert.Equal(t, 2, strings.Count(out, "<work:work "))
		assert.Contains(t, out, "</work:work>\n\n<?xml")
	})

	t.Run("bulk", func(t *testing.T) {
		out, err := renderWorks(records, true, work.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "<?xml"))
		assert.Contains(t, out, "<bulk:bulk ")
		assert.Equal(t, 2, strings.Count(out, "<work:work>"))
	})
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing field", &work.MissingFieldsError{Fields: []string{work.FieldTitle}}, ExitDataError},
		{"invalid argument", fmt.Errorf("wrapped: %w", work.ErrInvalidArgument), ExitDataError},
		{"too long", work.ErrLengthExceeded, ExitDataError},
		{"invalid input", &input.ValidationError{}, ExitDataError},
		{"unsupported format", input.ErrUnsupportedFormat, ExitDataError},
		{"other", errors.New("disk full"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestExitCodeForStorage(t *testing.T) {
	assert.Equal(t, ExitDataError, exitCodeForStorage(fmt.Errorf("reading JSONL: %w", &storage.LineError{Line: 3, Err: errors.New("bad")})))
	assert.Equal(t, ExitError, exitCodeForStorage(errors.New("locked")))
}

func TestWriteOptions(t *testing.T) {
	off := false

	assert.Equal(t, work.Options{FormatOutput: true}, writeOptions(&config.GlobalConfig{}, false, false))
	assert.Equal(t, work.Options{FormatOutput: false}, writeOptions(&config.GlobalConfig{}, true, false))
	assert.Equal(t, work.Options{FormatOutput: false}, writeOptions(&config.GlobalConfig{FormatOutput: &off}, false, false))
	assert.Equal(t, work.Options{FormatOutput: true, PreserveWhitespace: true}, writeOptions(&config.GlobalConfig{PreserveWhitespace: true}, false, false))
	assert.Equal(t, work.Options{FormatOutput: true, PreserveWhitespace: true}, writeOptions(&config.GlobalConfig{}, false, true))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "", firstNonEmpty())
}

// setupTestIndex builds an export index over refs.
func setupTestIndex(t *testing.T, refs []reference.Reference) *storage.DB {
	t.Helper()

	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "refs.jsonl")
	f, err := os.Create(jsonlPath)
	require.NoError(t, err)
	enc := json.NewEncoder(f)
	for _, ref := range refs {
		require.NoError(t, enc.Encode(ref))
	}
	require.NoError(t, f.Close())

	db, err := storage.OpenDB(filepath.Join(dir, "orcid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)
	return db
}

func refIDs(refs []reference.Reference) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

func TestSelectReferences(t *testing.T) {
	refs := testRefs(3)
	refs[0].Published = reference.PublicationDate{Year: 2024}
	refs[1].DOI = ""
	refs[1].Published = reference.PublicationDate{Year: 2020}
	refs[2].Published = reference.PublicationDate{Year: 2025}
	db := setupTestIndex(t, refs)

	t.Run("keys keep given order", func(t *testing.T) {
		got, err := selectReferences(db, "Ref002, Ref000", storage.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ref002", "Ref000"}, refIDs(got))
	})

	t.Run("keys accept DOIs", func(t *testing.T) {
		got, err := selectReferences(db, "https://doi.org/10.1000/REF.2,doi:10.1000/ref.0", storage.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ref002", "Ref000"}, refIDs(got))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := selectReferences(db, "Ref000,10.1000/nothing", storage.Filter{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errUnknownKey))
		assert.Contains(t, err.Error(), "10.1000/nothing")
	})

	t.Run("filter", func(t *testing.T) {
		got, err := selectReferences(db, "", storage.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ref000", "Ref001", "Ref002"}, refIDs(got))

		got, err = selectReferences(db, "", storage.Filter{IdentifiedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ref000", "Ref002"}, refIDs(got))

		got, err = selectReferences(db, "", storage.Filter{YearTo: 2020})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ref001"}, refIDs(got))
	})
}

func TestExportOptionErrorsAreDataErrors(t *testing.T) {
	err := export.ValidateOptions(export.Options{Citation: "apa"})
	require.Error(t, err)
	assert.Equal(t, ExitDataError, exitCodeFor(err))

	err = export.ValidateOptions(export.Options{WorkType: "preprint"})
	require.Error(t, err)
	assert.Equal(t, ExitDataError, exitCodeFor(err))
}
