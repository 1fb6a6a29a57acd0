package work

import (
	"strconv"

	"github.com/beevik/etree"
)

// Validate checks the fields required for serialization and reports every
// missing one in a single *MissingFieldsError.
func (r *Record) Validate() error {
	var missing []string
	if r.title == "" {
		missing = append(missing, FieldTitle)
	}
	if r.workType == "" {
		missing = append(missing, FieldType)
	}
	if len(r.externals) == 0 {
		missing = append(missing, FieldExternalIDs)
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// Document builds the XML tree for the record with work:work as root,
// indented according to opts. The record is not modified.
func (r *Record) Document(opts Options) (*etree.Document, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	doc := newDocument()
	root := doc.CreateElement("work:work")
	declareNamespaces(root, SchemaLocation)
	r.fill(root)
	applyOptions(doc, opts)
	return doc, nil
}

// XML returns the serialized document.
func (r *Record) XML(opts Options) (string, error) {
	doc, err := r.Document(opts)
	if err != nil {
		return "", err
	}
	return doc.WriteToString()
}

// Marshal serializes r with DefaultOptions.
func Marshal(r *Record) (string, error) {
	return r.XML(DefaultOptions())
}

// fill writes the put-code attribute and all child elements of a work:work element
// in schema order.
func (r *Record) fill(w *etree.Element) {
	if r.putCode != nil {
		w.CreateAttr("put-code", strconv.FormatInt(*r.putCode, 10))
	}

	titles := workElement(w, "title")
	setText(commonElement(titles, "title"), r.title)
	if r.subtitle != nil {
		setText(commonElement(titles, "subtitle"), *r.subtitle)
	}
	if r.translatedTitle != nil && r.translatedTitleLanguageCode != nil {
		tt := commonElement(titles, "translated-title")
		tt.CreateAttr("language-code", *r.translatedTitleLanguageCode)
		setText(tt, *r.translatedTitle)
	}

	if r.journalTitle != nil {
		setText(workElement(w, "journal-title"), *r.journalTitle)
	}
	if r.shortDescription != nil {
		setText(workElement(w, "short-description"), *r.shortDescription)
	}

	if r.citation != nil {
		addCitationNode(w, deref(r.citationType), *r.citation)
	}

	setText(workElement(w, "type"), r.workType)

	if r.publicationDate != nil {
		addDateNode(w, *r.publicationDate)
	}

	externalIDs := commonElement(w, "external-ids")
	for _, id := range r.externals {
		addExternalIDNode(externalIDs, id)
	}

	if r.workURL != nil {
		setText(workElement(w, "url"), *r.workURL)
	}

	if len(r.authors) > 0 || r.principalAuthors.IsSet() {
		contributors := workElement(w, "contributors")
		for _, a := range r.authors {
			addContributorNode(contributors, a)
		}
		// Single and list forms both render one node per held name.
		for _, name := range r.principalAuthors.names {
			addContributorNode(contributors, Contributor{FullName: name, Role: RolePrincipalInvestigator})
		}
	}

	if r.languageCode != nil {
		setText(commonElement(w, "language-code"), *r.languageCode)
	}
	if r.country != nil {
		setText(commonElement(w, "country"), *r.country)
	}
}
