// Package pdf reads the identifying metadata of a paper from its PDF.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ScanPages is how many leading pages are searched for a DOI.
const ScanPages = 3

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Metadata is what could be recovered from a PDF. Empty fields were not found.
type Metadata struct {
	Title string `json:"title,omitempty"`
	DOI   string `json:"doi,omitempty"`
}

// Extract opens a PDF once and reads its title and DOI.
// A PDF without either is not an error.
func Extract(filePath string) (Metadata, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	var meta Metadata
	pages := r.NumPage()
	if pages > ScanPages {
		pages = ScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if i == 1 {
			meta.Title = findTitle(text)
		}
		if meta.DOI == "" {
			meta.DOI = findDOI(text)
		}
		if meta.DOI != "" && meta.Title != "" {
			break
		}
	}

	return meta, nil
}

// ExtractDOI extracts a DOI from the first pages of a PDF file.
func ExtractDOI(filePath string) (string, error) {
	meta, err := Extract(filePath)
	return meta.DOI, err
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// findTitle returns the first substantial line of page text.
func findTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) && findDOI(line) == "" {
			return line
		}
	}
	return ""
}

// isHeaderLine checks if a line is likely a running header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "article") && strings.Contains(lower, "published"),
		strings.HasPrefix(lower, "arxiv:"):
		return true
	}
	return false
}
