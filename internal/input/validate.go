package input

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/biporcid/internal/work"
)

// Problem is one failed rule on one field.
type Problem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (p Problem) String() string {
	if p.Param != "" {
		return fmt.Sprintf("%s: %s=%s", p.Field, p.Rule, p.Param)
	}
	return fmt.Sprintf("%s: %s", p.Field, p.Rule)
}

// ValidationError lists every problem found in a WorkInput.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid work input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their file names rather than Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "orcid_work_type", func(fl validator.FieldLevel) bool {
		return work.IsWorkType(fl.Field().String())
	})
	mustRegister(v, "orcid_relationship", func(fl validator.FieldLevel) bool {
		return work.IsRelationship(fl.Field().String())
	})
	mustRegister(v, "orcid_language", func(fl validator.FieldLevel) bool {
		return work.IsLanguageCode(fl.Field().String())
	})
	mustRegister(v, "orcid_citation_type", func(fl validator.FieldLevel) bool {
		return work.IsCitationType(fl.Field().String())
	})
	mustRegister(v, "orcid_id", func(fl validator.FieldLevel) bool {
		return IsORCID(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s: %v", tag, err))
	}
}

// Validate checks the input against the registry vocabularies and field rules.
// All problems are reported at once in a *ValidationError.
func (in *WorkInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	problems := make([]Problem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, Problem{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return &ValidationError{Problems: problems}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// IsORCID reports whether id is a well-formed ORCID identifier with a valid
// ISO 7064 MOD 11-2 check character.
func IsORCID(id string) bool {
	if !orcidPattern.MatchString(id) {
		return false
	}
	digits := strings.ReplaceAll(id, "-", "")
	total := 0
	for _, c := range digits[:15] {
		total = (total + int(c-'0')) * 2
	}
	result := (12 - total%11) % 11
	want := byte('0' + result)
	if result == 10 {
		want = 'X'
	}
	return digits[15] == want
}
