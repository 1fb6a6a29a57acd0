// Package config locates the bipartite library and loads bip-orcid settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the part of .bipartite/config.json that bip-orcid reads.
type Config struct {
	PDFRoot string `json:"pdf_root"` // Absolute path to PDF folder
}

const (
	BipartiteDir = ".bipartite"
	ConfigFile   = "config.json"
	RefsFile     = "refs.jsonl"
	CacheDir     = "cache"
	IndexFile    = "orcid.db"
)

// ErrNoRepository is returned when no .bipartite directory is found.
var ErrNoRepository = errors.New("not in a bipartite repository (no .bipartite directory found)")

// BipartitePath returns the path to the .bipartite directory from a root path.
func BipartitePath(root string) string {
	return filepath.Join(root, BipartiteDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, BipartiteDir, ConfigFile)
}

// RefsPath returns the path to refs.jsonl from a root path.
func RefsPath(root string) string {
	return filepath.Join(root, BipartiteDir, RefsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, BipartiteDir, CacheDir)
}

// IndexPath returns the path to the export index from a root path.
// It is separate from the library's own refs.db so the two never race.
func IndexPath(root string) string {
	return filepath.Join(root, BipartiteDir, CacheDir, IndexFile)
}

// IsRepository checks if the given path contains a bipartite repository.
func IsRepository(root string) bool {
	info, err := os.Stat(BipartitePath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a bipartite repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoRepository
		}
		abs = parent
	}
}

// Load reads the repository configuration. A repository without config.json
// yields an empty Config.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.PDFRoot = ExpandPath(cfg.PDFRoot)

	return &cfg, nil
}

// ValidatePDFRoot checks that the PDF root path exists and is a directory.
func ValidatePDFRoot(path string) error {
	if path == "" {
		return nil
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
