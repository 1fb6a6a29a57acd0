package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoRoot is returned when no pdf_root is configured.
	ErrNoRoot = errors.New("pdf_root not configured")
	// ErrNotFound is returned when the resolved PDF does not exist.
	ErrNotFound = errors.New("PDF not found")
)

// Resolver turns library-relative PDF paths into files on disk.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for PDFs stored under root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve returns the absolute path of a PDF stored under the root.
func (r *Resolver) Resolve(relativePath string) (string, error) {
	if r.root == "" {
		return "", ErrNoRoot
	}
	if relativePath == "" {
		return "", fmt.Errorf("%w: no PDF path recorded", ErrNotFound)
	}

	fullPath := filepath.Join(r.root, relativePath)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, fullPath)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	return fullPath, nil
}

// LookupDOI resolves relativePath and extracts a DOI from the PDF.
func (r *Resolver) LookupDOI(relativePath string) (string, error) {
	path, err := r.Resolve(relativePath)
	if err != nil {
		return "", err
	}
	doi, err := ExtractDOI(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return doi, nil
}
