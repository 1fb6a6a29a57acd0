package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "See doi 10.1093/molbev/msaa123 for details", "10.1093/molbev/msaa123"},
		{"trailing punctuation", "(https://doi.org/10.1371/journal.pcbi.1008030).", "10.1371/journal.pcbi.1008030"},
		{"first of several", "10.1000/first and 10.2000/second", "10.1000/first"},
		{"too short registrant", "10.12/abc", ""},
		{"none", "no identifier here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findDOI(tt.text))
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	assert.True(t, isValidDOI("10.1234/abc"))
	assert.False(t, isValidDOI("10.1234/"))
	assert.False(t, isValidDOI("11.1234/abcdef"))
	assert.False(t, isValidDOI("10.1/x"))
}

func TestFindTitle(t *testing.T) {
	text := "Journal of Molecular Evolution\n" +
		"doi: 10.1007/s00239-020-09999-1\n" +
		"\n" +
		"Short line\n" +
		"  Bayesian phylogenetics with variational inference  \n" +
		"Jane Doe, John Smith\n"
	assert.Equal(t, "Bayesian phylogenetics with variational inference", findTitle(text))
	assert.Equal(t, "", findTitle("tiny\nlines\n"))
}

func TestIsHeaderLine(t *testing.T) {
	assert.True(t, isHeaderLine("Copyright 2020 the authors"))
	assert.True(t, isHeaderLine("Volume 12, Issue 3"))
	assert.True(t, isHeaderLine("arXiv:2501.01234v1 [q-bio.PE] 2 Jan 2025"))
	assert.False(t, isHeaderLine("Volume rendering of trees"))
}

func TestResolver(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Papers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Papers", "a.pdf"), []byte("%PDF-1.4"), 0644))

	r := NewResolver(root)

	got, err := r.Resolve("Papers/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Papers", "a.pdf"), got)

	_, err = r.Resolve("Papers/missing.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = r.Resolve("")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = NewResolver("").Resolve("Papers/a.pdf")
	assert.True(t, errors.Is(err, ErrNoRoot))
}

func TestResolver_LookupDOIUnreadable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.pdf"), []byte("not a pdf"), 0644))

	_, err := NewResolver(root).LookupDOI("broken.pdf")
	assert.Error(t, err)
}
