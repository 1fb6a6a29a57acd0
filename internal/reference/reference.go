// Package reference defines the bibliography entries read from a bipartite library.
package reference

import "strings"

// Reference is one entry of refs.jsonl. Fields the ORCID export does not use
// are ignored when decoding.
type Reference struct {
	ID  string `json:"id"`  // Stable citekey
	DOI string `json:"doi"` // Digital Object Identifier

	Title    string   `json:"title"`
	Authors  []Author `json:"authors"`
	Abstract string   `json:"abstract"`
	Venue    string   `json:"venue"` // Journal, conference, or preprint server

	Published PublicationDate `json:"published"`

	// PDFPath is relative to the configured pdf_root.
	PDFPath string `json:"pdf_path"`

	PMID    string `json:"pmid,omitempty"`
	PMCID   string `json:"pmcid,omitempty"`
	ArXivID string `json:"arxiv_id,omitempty"`
}

// HasIdentifier reports whether the reference carries any external identifier.
func (r Reference) HasIdentifier() bool {
	return r.DOI != "" || r.PMID != "" || r.PMCID != "" || r.ArXivID != ""
}

// PublicationDate is a date with optional month and day; zero means unknown.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// IsZero reports whether no year is known.
func (d PublicationDate) IsZero() bool {
	return d.Year == 0
}

// Venue kinds used to classify a reference.
const (
	KindArticle    = "article"
	KindConference = "conference"
	KindPreprint   = "preprint"
)

// Kind classifies the reference by its venue name.
func (r Reference) Kind() string {
	venue := strings.ToLower(r.Venue)

	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return KindPreprint
	}

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return KindConference
	}

	return KindArticle
}

var doiPrefixes = []string{
	"https://doi.org/", "http://doi.org/",
	"https://dx.doi.org/", "http://dx.doi.org/",
	"doi.org/", "doi:",
}

// NormalizeDOI strips resolver prefixes and surrounding space from a DOI.
// Case is preserved; use DOIKey for comparisons.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range doiPrefixes {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

// DOIKey returns the case-folded form of a DOI used for lookups.
func DOIKey(doi string) string {
	return strings.ToLower(NormalizeDOI(doi))
}
