package work

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Record setters and the serializer.
var (
	// ErrInvalidArgument indicates a non-empty value outside the accepted format or vocabulary.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLengthExceeded indicates a value longer than the registry accepts.
	ErrLengthExceeded = errors.New("length exceeded")

	// ErrMissingRequiredField indicates a record lacking title, type or external ids at serialization time.
	ErrMissingRequiredField = errors.New("missing required field")
)

// FieldError reports a rejected setter value.
type FieldError struct {
	Field string
	Value string
	Err   error // ErrInvalidArgument or ErrLengthExceeded
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrLengthExceeded) {
		return fmt.Sprintf("%s: %v (%d characters, max %d)", e.Field, e.Err, len([]rune(e.Value)), MaxShortDescriptionLength)
	}
	return fmt.Sprintf("%s: %v: %q", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingFieldsError lists every required field absent from a record.
type MissingFieldsError struct {
	Fields []string
}

// missingFieldMessages maps a required field to its complaint.
var missingFieldMessages = map[string]string{
	FieldTitle:       "title value cannot be empty",
	FieldType:        "work type value cannot be empty",
	FieldExternalIDs: "external identifiers cannot be empty",
}

func (e *MissingFieldsError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if m, ok := missingFieldMessages[f]; ok {
			msgs[i] = m
		} else {
			msgs[i] = f + " cannot be empty"
		}
	}
	return fmt.Sprintf("%v: %s", ErrMissingRequiredField, strings.Join(msgs, "; "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingRequiredField
}

// IsValidation returns true if err comes from rejected input rather than an I/O or encoding failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrLengthExceeded) ||
		errors.Is(err, ErrMissingRequiredField)
}
