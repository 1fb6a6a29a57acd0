// Package input reads work description files (YAML or JSON), validates them
// and applies them to a work.Record.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matsen/biporcid/internal/work"
)

// Errors returned by this package.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrInvalidInput      = errors.New("invalid work input")
)

// WorkInput is the on-disk description of a single work.
type WorkInput struct {
	PutCode                int64            `yaml:"put_code" json:"put_code,omitempty" validate:"gte=0"`
	Title                  string           `yaml:"title" json:"title" validate:"required"`
	Subtitle               string           `yaml:"subtitle" json:"subtitle,omitempty"`
	TranslatedTitle        *TranslatedTitle `yaml:"translated_title" json:"translated_title,omitempty" validate:"omitempty"`
	Type                   string           `yaml:"type" json:"type" validate:"required,orcid_work_type"`
	JournalTitle           string           `yaml:"journal_title" json:"journal_title,omitempty"`
	ShortDescription       string           `yaml:"short_description" json:"short_description,omitempty" validate:"max=5000"`
	Citation               *Citation        `yaml:"citation" json:"citation,omitempty" validate:"omitempty"`
	PublicationDate        *Date            `yaml:"publication_date" json:"publication_date,omitempty" validate:"omitempty"`
	ExternalIDs            []ExternalID     `yaml:"external_ids" json:"external_ids" validate:"required,min=1,dive"`
	URL                    string           `yaml:"url" json:"url,omitempty" validate:"omitempty,url"`
	Contributors           []Contributor    `yaml:"contributors" json:"contributors,omitempty" validate:"dive"`
	PrincipalInvestigators []string         `yaml:"principal_investigators" json:"principal_investigators,omitempty" validate:"dive,required"`
	LanguageCode           string           `yaml:"language_code" json:"language_code,omitempty" validate:"omitempty,orcid_language"`
	Country                string           `yaml:"country" json:"country,omitempty" validate:"omitempty,len=2,alpha"`
}

// TranslatedTitle is a title in another language.
type TranslatedTitle struct {
	Title        string `yaml:"title" json:"title" validate:"required"`
	LanguageCode string `yaml:"language_code" json:"language_code" validate:"required,orcid_language"`
}

// Citation is a formatted citation of the work.
type Citation struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Type  string `yaml:"type" json:"type,omitempty" validate:"omitempty,orcid_citation_type"`
}

// Date is a publication date; month and day are optional.
type Date struct {
	Year  string `yaml:"year" json:"year" validate:"required,len=4,numeric"`
	Month string `yaml:"month" json:"month,omitempty" validate:"omitempty,numeric,max=2"`
	Day   string `yaml:"day" json:"day,omitempty" validate:"omitempty,numeric,max=2"`
}

// ExternalID identifies the work in another system.
type ExternalID struct {
	Type         string `yaml:"type" json:"type" validate:"required"`
	Value        string `yaml:"value" json:"value" validate:"required"`
	URL          string `yaml:"url" json:"url,omitempty" validate:"omitempty,url"`
	Relationship string `yaml:"relationship" json:"relationship,omitempty" validate:"omitempty,orcid_relationship"`
}

// Contributor is an author of the work.
type Contributor struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Role     string `yaml:"role" json:"role,omitempty"`
	ORCID    string `yaml:"orcid" json:"orcid,omitempty" validate:"omitempty,orcid_id"`
	Sequence string `yaml:"sequence" json:"sequence,omitempty" validate:"omitempty,oneof=first additional"`
}

// Load reads a work description, choosing the decoder by file extension.
// Unknown fields are rejected.
func Load(path string) (*WorkInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var in WorkInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q (use .yml, .yaml or .json)", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return &in, nil
}

// Apply builds a record from the input. Inputs are expected to have passed
// Validate; setter errors are still returned, naming the offending field.
func (in *WorkInput) Apply() (*work.Record, error) {
	r := work.New().
		SetTitle(in.Title).
		SetSubtitle(in.Subtitle).
		SetType(in.Type).
		SetJournalTitle(in.JournalTitle).
		SetWorkURL(in.URL).
		SetCountry(in.Country)

	if err := r.SetPutCode(in.PutCode); err != nil {
		return nil, err
	}
	if in.TranslatedTitle != nil {
		if err := r.SetTranslatedTitle(in.TranslatedTitle.Title, in.TranslatedTitle.LanguageCode); err != nil {
			return nil, err
		}
	}
	if err := r.SetShortDescription(in.ShortDescription); err != nil {
		return nil, err
	}
	if in.Citation != nil {
		if err := r.SetCitation(in.Citation.Value, in.Citation.Type); err != nil {
			return nil, err
		}
	}
	if in.PublicationDate != nil {
		r.SetPublicationDate(in.PublicationDate.Year, in.PublicationDate.Month, in.PublicationDate.Day)
	}
	for i, id := range in.ExternalIDs {
		ext := work.ExternalID{Type: id.Type, Value: id.Value, URL: id.URL, Relationship: id.Relationship}
		if err := r.AddExternal(ext); err != nil {
			return nil, fmt.Errorf("external_ids[%d]: %w", i, err)
		}
	}
	for _, c := range in.Contributors {
		r.AddAuthor(c.Name, c.Role, c.ORCID, c.Sequence)
	}
	switch len(in.PrincipalInvestigators) {
	case 0:
	case 1:
		r.SetPrincipalAuthor(in.PrincipalInvestigators[0])
	default:
		r.SetPrincipalAuthors(in.PrincipalInvestigators...)
	}
	if err := r.SetLanguageCode(in.LanguageCode); err != nil {
		return nil, err
	}
	return r, nil
}
