package work

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// RecordError ties an error to the position of a record in a bulk request.
type RecordError struct {
	Index int // 0-based
	Err   error
}

// BulkError collects the records of a bulk document that failed validation.
type BulkError struct {
	Records []RecordError
}

func (e *BulkError) Error() string {
	msgs := make([]string, len(e.Records))
	for i, re := range e.Records {
		msgs[i] = fmt.Sprintf("record %d: %v", re.Index+1, re.Err)
	}
	return strings.Join(msgs, "; ")
}

func (e *BulkError) Unwrap() []error {
	errs := make([]error, len(e.Records))
	for i, re := range e.Records {
		errs[i] = re.Err
	}
	return errs
}

// BulkDocument builds a bulk:bulk document holding one work:work per record, in order.
// Every record is validated before anything is built.
func BulkDocument(opts Options, records ...*Record) (*etree.Document, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("bulk document: %w: no records", ErrMissingRequiredField)
	}

	var failed []RecordError
	for i, r := range records {
		if err := r.Validate(); err != nil {
			failed = append(failed, RecordError{Index: i, Err: err})
		}
	}
	if len(failed) > 0 {
		return nil, &BulkError{Records: failed}
	}

	doc := newDocument()
	root := doc.CreateElement("bulk:bulk")
	root.CreateAttr("xmlns:bulk", NamespaceBulk)
	declareNamespaces(root, BulkSchemaLocation)
	for _, r := range records {
		r.fill(root.CreateElement("work:work"))
	}
	applyOptions(doc, opts)
	return doc, nil
}

// BulkXML returns the serialized bulk document.
func BulkXML(opts Options, records ...*Record) (string, error) {
	doc, err := BulkDocument(opts, records...)
	if err != nil {
		return "", err
	}
	return doc.WriteToString()
}
