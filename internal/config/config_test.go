package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"BipartitePath", BipartitePath, "/test/repo/.bipartite"},
		{"ConfigPath", ConfigPath, "/test/repo/.bipartite/config.json"},
		{"RefsPath", RefsPath, "/test/repo/.bipartite/refs.jsonl"},
		{"CachePath", CachePath, "/test/repo/.bipartite/cache"},
		{"IndexPath", IndexPath, "/test/repo/.bipartite/cache/orcid.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(root))
		})
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()
	assert.False(t, IsRepository(tmpDir))

	require.NoError(t, os.MkdirAll(BipartitePath(tmpDir), 0755))
	assert.True(t, IsRepository(tmpDir))
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(BipartitePath(tmpDir), nil, 0644))
	assert.False(t, IsRepository(tmpDir))
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(BipartitePath(tmpDir), 0755))

	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	want, err := filepath.Abs(tmpDir)
	require.NoError(t, err)

	got, err := FindRepository(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindRepository_NotFound(t *testing.T) {
	_, err := FindRepository(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoRepository))
}

func TestLoad(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, cfg.PDFRoot)
	})

	t.Run("pdf root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(BipartitePath(root), 0755))
		require.NoError(t, os.WriteFile(ConfigPath(root), []byte(`{"pdf_root": "/papers", "pdf_reader": "zathura"}`), 0644))

		cfg, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, "/papers", cfg.PDFRoot)
	})

	t.Run("bad json", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(BipartitePath(root), 0755))
		require.NoError(t, os.WriteFile(ConfigPath(root), []byte(`{`), 0644))

		_, err := Load(root)
		assert.Error(t, err)
	})
}

func TestValidatePDFRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.NoError(t, ValidatePDFRoot(""))
	assert.NoError(t, ValidatePDFRoot(dir))
	assert.Error(t, ValidatePDFRoot(file))
	assert.Error(t, ValidatePDFRoot(filepath.Join(dir, "absent")))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, filepath.Join(home, "papers"), ExpandPath("~/papers"))
	assert.Equal(t, home, ExpandPath("~"))
}
