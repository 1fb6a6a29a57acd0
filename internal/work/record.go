// Package work builds ORCID work records and serializes them to registry XML.
//
// A Record is filled through setters. Setters ignore empty input, and the
// ones that validate reject bad values immediately without touching the
// record. Required fields (title, type, external ids) are only checked when
// the record is serialized.
//
// A Record has no internal locking. Concurrent serialization of a record that
// is not being mutated is safe.
package work

import (
	"strconv"
	"unicode/utf8"
)

// MaxShortDescriptionLength is the registry limit on short-description, in characters.
const MaxShortDescriptionLength = 5000

// Field names used in errors.
const (
	FieldTitle            = "title"
	FieldType             = "type"
	FieldExternalIDs      = "external-ids"
	FieldShortDescription = "short-description"
	FieldLanguageCode     = "language-code"
	FieldCitationType     = "citation-type"
	FieldTranslatedTitle  = "translated-title"
	FieldExternalID       = "external-id"
	FieldPutCode          = "put-code"
)

// Record is one work submission before serialization.
type Record struct {
	title                       string
	subtitle                    *string
	translatedTitle             *string
	translatedTitleLanguageCode *string
	workType                    string
	putCode                     *int64
	publicationDate             *PublicationDate
	externals                   []ExternalID

	authors          []Contributor
	principalAuthors PrincipalAuthors

	journalTitle     *string
	shortDescription *string
	citation         *string
	citationType     *string
	languageCode     *string
	country          *string
	workURL          *string
}

// New returns an empty record.
func New() *Record {
	return &Record{}
}

func strPtr(s string) *string {
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// SetTitle sets the work title.
func (r *Record) SetTitle(title string) *Record {
	if title != "" {
		r.title = title
	}
	return r
}

// SetSubtitle sets the work subtitle.
func (r *Record) SetSubtitle(subtitle string) *Record {
	if subtitle != "" {
		r.subtitle = strPtr(subtitle)
	}
	return r
}

// SetTranslatedTitle sets the translated title together with its language code.
// Either part may be given alone; the element is only written when both are held.
func (r *Record) SetTranslatedTitle(title, languageCode string) error {
	if languageCode != "" && !IsLanguageCode(languageCode) {
		return &FieldError{Field: FieldTranslatedTitle, Value: languageCode, Err: ErrInvalidArgument}
	}
	if title != "" {
		r.translatedTitle = strPtr(title)
	}
	if languageCode != "" {
		r.translatedTitleLanguageCode = strPtr(languageCode)
	}
	return nil
}

// SetType sets the work type. Any non-empty value is accepted; see IsWorkType.
func (r *Record) SetType(workType string) *Record {
	if workType != "" {
		r.workType = workType
	}
	return r
}

// SetPutCode marks the record as an update of an existing registry entry.
// Zero is treated as unset; negative codes are rejected.
func (r *Record) SetPutCode(code int64) error {
	if code < 0 {
		return &FieldError{Field: FieldPutCode, Value: strconv.FormatInt(code, 10), Err: ErrInvalidArgument}
	}
	if code > 0 {
		r.putCode = &code
	}
	return nil
}

// SetPublicationDate stores the date parts as given. All-empty input is ignored.
func (r *Record) SetPublicationDate(year, month, day string) *Record {
	if year == "" && month == "" && day == "" {
		return r
	}
	r.publicationDate = &PublicationDate{Year: year, Month: month, Day: day}
	return r
}

// AddExternalID appends an external identifier. An empty relationship means self.
// Type and value must be given together.
func (r *Record) AddExternalID(idType, value, url, relationship string) error {
	return r.AddExternal(ExternalID{Type: idType, Value: value, URL: url, Relationship: relationship})
}

// AddExternal appends an external identifier.
func (r *Record) AddExternal(id ExternalID) error {
	if id.Type == "" && id.Value == "" {
		return nil
	}
	if id.Type == "" || id.Value == "" {
		return &FieldError{Field: FieldExternalID, Value: id.Type + ":" + id.Value, Err: ErrInvalidArgument}
	}
	if id.Relationship == "" {
		id.Relationship = RelationshipSelf
	}
	r.externals = append(r.externals, id)
	return nil
}

// AddAuthor appends a contributor. An empty fullName is ignored, so check names
// on the caller side if every author must appear. An empty role means author.
func (r *Record) AddAuthor(fullName, role, orcidID, sequence string) *Record {
	if fullName == "" {
		return r
	}
	if role == "" {
		role = RoleAuthor
	}
	r.authors = append(r.authors, Contributor{FullName: fullName, Role: role, ORCID: orcidID, Sequence: sequence})
	return r
}

// SetPrincipalAuthor stores a single principal investigator.
func (r *Record) SetPrincipalAuthor(name string) *Record {
	return r.SetPrincipalAuthorsValue(SinglePrincipal(name))
}

// SetPrincipalAuthors stores a list of principal investigators.
func (r *Record) SetPrincipalAuthors(names ...string) *Record {
	return r.SetPrincipalAuthorsValue(ManyPrincipals(names...))
}

// SetPrincipalAuthorsValue stores p unless it is unset.
func (r *Record) SetPrincipalAuthorsValue(p PrincipalAuthors) *Record {
	if p.IsSet() {
		r.principalAuthors = p
	}
	return r
}

// SetJournalTitle sets the journal title.
func (r *Record) SetJournalTitle(journalTitle string) *Record {
	if journalTitle != "" {
		r.journalTitle = strPtr(journalTitle)
	}
	return r
}

// SetShortDescription sets the abstract-like description, at most
// MaxShortDescriptionLength characters.
func (r *Record) SetShortDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxShortDescriptionLength {
		return &FieldError{Field: FieldShortDescription, Value: description, Err: ErrLengthExceeded}
	}
	if description != "" {
		r.shortDescription = strPtr(description)
	}
	return nil
}

// SetLanguageCode sets the language of the work. The code is matched
// case-insensitively and stored as given.
func (r *Record) SetLanguageCode(code string) error {
	if code == "" {
		return nil
	}
	if !IsLanguageCode(code) {
		return &FieldError{Field: FieldLanguageCode, Value: code, Err: ErrInvalidArgument}
	}
	r.languageCode = strPtr(code)
	return nil
}

// SetCitation stores a citation. citationType is applied only if no citation
// type is held yet; an empty citationType then means DefaultCitationType.
func (r *Record) SetCitation(citation, citationType string) error {
	if citation == "" {
		return nil
	}
	if r.citationType == nil {
		if citationType == "" {
			citationType = DefaultCitationType
		}
		if err := r.SetCitationType(citationType); err != nil {
			return err
		}
	}
	r.citation = strPtr(citation)
	return nil
}

// SetCitationType sets the citation format. It has no effect on output unless
// a citation is also set.
func (r *Record) SetCitationType(citationType string) error {
	if citationType == "" {
		return nil
	}
	if !IsCitationType(citationType) {
		return &FieldError{Field: FieldCitationType, Value: citationType, Err: ErrInvalidArgument}
	}
	r.citationType = strPtr(citationType)
	return nil
}

// SetCountry sets the country of publication.
func (r *Record) SetCountry(country string) *Record {
	if country != "" {
		r.country = strPtr(country)
	}
	return r
}

// SetWorkURL sets the work URL.
func (r *Record) SetWorkURL(url string) *Record {
	if url != "" {
		r.workURL = strPtr(url)
	}
	return r
}

// Title returns the work title.
func (r *Record) Title() string { return r.title }

// Subtitle returns the subtitle, or "" if unset.
func (r *Record) Subtitle() string { return deref(r.subtitle) }

// TranslatedTitle returns the translated title and its language code.
func (r *Record) TranslatedTitle() (title, languageCode string) {
	return deref(r.translatedTitle), deref(r.translatedTitleLanguageCode)
}

// Type returns the work type.
func (r *Record) Type() string { return r.workType }

// PutCode returns the put-code and whether it is set.
func (r *Record) PutCode() (int64, bool) {
	if r.putCode == nil {
		return 0, false
	}
	return *r.putCode, true
}

// PublicationDate returns the stored date and whether it is set.
func (r *Record) PublicationDate() (PublicationDate, bool) {
	if r.publicationDate == nil {
		return PublicationDate{}, false
	}
	return *r.publicationDate, true
}

// ExternalIDs returns a copy of the external identifiers in insertion order.
func (r *Record) ExternalIDs() []ExternalID {
	out := make([]ExternalID, len(r.externals))
	copy(out, r.externals)
	return out
}

// Authors returns a copy of the contributors in insertion order.
func (r *Record) Authors() []Contributor {
	out := make([]Contributor, len(r.authors))
	copy(out, r.authors)
	return out
}

// PrincipalAuthors returns the stored principal investigators.
func (r *Record) PrincipalAuthors() PrincipalAuthors { return r.principalAuthors }

// JournalTitle returns the journal title, or "" if unset.
func (r *Record) JournalTitle() string { return deref(r.journalTitle) }

// ShortDescription returns the description, or "" if unset.
func (r *Record) ShortDescription() string { return deref(r.shortDescription) }

// Citation returns the citation value, or "" if unset.
func (r *Record) Citation() string { return deref(r.citation) }

// CitationType returns the citation format, or "" if unset.
func (r *Record) CitationType() string { return deref(r.citationType) }

// LanguageCode returns the language code as given, or "" if unset.
func (r *Record) LanguageCode() string { return deref(r.languageCode) }

// Country returns the country, or "" if unset.
func (r *Record) Country() string { return deref(r.country) }

// WorkURL returns the work URL, or "" if unset.
func (r *Record) WorkURL() string { return deref(r.workURL) }
