package work

// ExternalID is a typed reference to the work, such as a DOI.
type ExternalID struct {
	Type         string `json:"type"`
	Value        string `json:"value"`
	URL          string `json:"url,omitempty"`
	Relationship string `json:"relationship"` // self when empty
}

// Contributor is an author entry; ORCID is the bare identifier without URL prefix.
type Contributor struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	ORCID    string `json:"orcid,omitempty"`
	Sequence string `json:"sequence,omitempty"` // first, additional
}

// PublicationDate holds the raw date parts as given.
// Validity is decided when the date node is built, not here.
type PublicationDate struct {
	Year  string `json:"year"`
	Month string `json:"month,omitempty"`
	Day   string `json:"day,omitempty"`
}

// Contributor roles.
const (
	RoleAuthor                = "author"
	RolePrincipalInvestigator = "principal-investigator"
)

type principalKind int

const (
	principalNone principalKind = iota
	principalSingle
	principalMany
)

// PrincipalAuthors holds either nothing, a single name, or a list of names.
// Each name is rendered as a contributor with role principal-investigator.
type PrincipalAuthors struct {
	kind  principalKind
	names []string
}

// SinglePrincipal returns a PrincipalAuthors holding one name.
func SinglePrincipal(name string) PrincipalAuthors {
	if name == "" {
		return PrincipalAuthors{}
	}
	return PrincipalAuthors{kind: principalSingle, names: []string{name}}
}

// ManyPrincipals returns a PrincipalAuthors holding a list of names.
// Empty names are dropped; an all-empty list yields the unset value.
func ManyPrincipals(names ...string) PrincipalAuthors {
	var kept []string
	for _, n := range names {
		if n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return PrincipalAuthors{}
	}
	return PrincipalAuthors{kind: principalMany, names: kept}
}

// IsSet reports whether any principal author is held.
func (p PrincipalAuthors) IsSet() bool {
	return p.kind != principalNone
}

// IsList reports whether the value was given as a list.
func (p PrincipalAuthors) IsList() bool {
	return p.kind == principalMany
}

// Names returns a copy of the held names.
func (p PrincipalAuthors) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
