package export

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matsen/biporcid/internal/reference"
	"github.com/matsen/biporcid/internal/work"
)

// Citation styles accepted by Options.Citation.
const (
	CitationBibTeX = "bibtex"
	CitationNone   = "none"
)

// ErrNoIdentifier is returned for references without any external identifier.
var ErrNoIdentifier = errors.New("reference has no DOI, PMID, PMCID or arXiv id")

// Options controls how references become works.
type Options struct {
	// WorkType overrides the type derived from the venue when set.
	WorkType string
	// Citation is CitationBibTeX or CitationNone; empty means none.
	Citation string
	// Sequence marks the first author "first" and the rest "additional".
	Sequence bool
}

// ValidateOptions checks the option values before any reference is converted.
func ValidateOptions(opts Options) error {
	if opts.WorkType != "" && !work.IsWorkType(opts.WorkType) {
		return fmt.Errorf("%w: unknown work type %q", work.ErrInvalidArgument, opts.WorkType)
	}
	switch opts.Citation {
	case "", CitationNone, CitationBibTeX:
	default:
		return fmt.Errorf("%w: unknown citation style %q (valid: %s, %s)", work.ErrInvalidArgument, opts.Citation, CitationBibTeX, CitationNone)
	}
	return nil
}

// WorkType maps a reference onto the registry's work type vocabulary.
func WorkType(ref reference.Reference) string {
	switch ref.Kind() {
	case reference.KindConference:
		return "conference-paper"
	case reference.KindPreprint:
		return "working-paper"
	default:
		return "journal-article"
	}
}

// ToWork builds a validated work record from a reference.
func ToWork(ref reference.Reference, opts Options) (*work.Record, error) {
	ids := ExternalIDs(ref)
	if len(ids) == 0 {
		return nil, fmt.Errorf("reference %s: %w", ref.ID, ErrNoIdentifier)
	}

	workType := opts.WorkType
	if workType == "" {
		workType = WorkType(ref)
	}

	r := work.New().
		SetTitle(ref.Title).
		SetType(workType).
		SetJournalTitle(ref.Venue)

	for _, id := range ids {
		if err := r.AddExternal(id); err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
		}
	}
	if ids[0].Type == IDTypeDOI {
		r.SetWorkURL(ids[0].URL)
	}

	if err := r.SetShortDescription(truncateRunes(ref.Abstract, work.MaxShortDescriptionLength)); err != nil {
		return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
	}

	if !ref.Published.IsZero() {
		r.SetPublicationDate(strconv.Itoa(ref.Published.Year), itoaOrEmpty(ref.Published.Month), itoaOrEmpty(ref.Published.Day))
	}

	for i, a := range ref.Authors {
		sequence := ""
		if opts.Sequence {
			sequence = "additional"
			if i == 0 {
				sequence = "first"
			}
		}
		r.AddAuthor(a.FullName(), work.RoleAuthor, a.BareORCID(), sequence)
	}

	if opts.Citation == CitationBibTeX {
		if err := r.SetCitation(ToBibTeX(ref), CitationBibTeX); err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
		}
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
	}
	return r, nil
}

func itoaOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
