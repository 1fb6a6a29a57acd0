package reference

import "strings"

// Author is a paper author with an optional ORCID identifier.
type Author struct {
	First string `json:"first"`           // Given name(s)
	Last  string `json:"last"`            // Family name
	ORCID string `json:"orcid,omitempty"` // Bare identifier, no URL prefix
}

// FullName returns "First Last", or whichever part is present.
func (a Author) FullName() string {
	return strings.TrimSpace(a.First + " " + a.Last)
}

// BareORCID strips a registry URL prefix from the stored ORCID, if any.
func (a Author) BareORCID() string {
	id := strings.TrimSpace(a.ORCID)
	for _, prefix := range []string{"https://orcid.org/", "http://orcid.org/", "orcid.org/"} {
		id = strings.TrimPrefix(id, prefix)
	}
	return id
}
