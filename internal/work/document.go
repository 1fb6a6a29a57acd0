package work

import (
	"strings"

	"github.com/beevik/etree"
)

// Registry namespaces and schema locations.
const (
	NamespaceWork   = "http://www.orcid.org/ns/work"
	NamespaceCommon = "http://www.orcid.org/ns/common"
	NamespaceBulk   = "http://www.orcid.org/ns/bulk"
	NamespaceXSI    = "http://www.w3.org/2001/XMLSchema-instance"

	SchemaLocation     = NamespaceWork + "/ work-2.0.xsd"
	BulkSchemaLocation = NamespaceBulk + "/ bulk-2.0.xsd"

	// Hostname is the registry host written into contributor-orcid blocks.
	Hostname = "orcid.org"
)

// Options controls how a document is written.
type Options struct {
	// FormatOutput indents the document two spaces per level.
	FormatOutput bool
	// PreserveWhitespace keeps whitespace-only text in leaf elements when indenting.
	PreserveWhitespace bool
}

// DefaultOptions returns indented output without whitespace preservation.
func DefaultOptions() Options {
	return Options{FormatOutput: true, PreserveWhitespace: false}
}

// cdataElements lists the elements whose text is written as CDATA.
// Everything else (ids, types, citation value, dates) is escaped character data.
var cdataElements = map[string]bool{
	"title":             true,
	"subtitle":          true,
	"translated-title":  true,
	"journal-title":     true,
	"short-description": true,
	"credit-name":       true,
}

// newDocument returns a document holding only the XML declaration.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

// declareNamespaces puts the namespace declarations and schema location on a root element.
func declareNamespaces(root *etree.Element, schemaLocation string) {
	root.CreateAttr("xmlns:common", NamespaceCommon)
	root.CreateAttr("xmlns:work", NamespaceWork)
	root.CreateAttr("xmlns:xsi", NamespaceXSI)
	root.CreateAttr("xsi:schemaLocation", schemaLocation)
}

// applyOptions indents doc when opts asks for formatted output.
func applyOptions(doc *etree.Document, opts Options) {
	if !opts.FormatOutput {
		return
	}
	settings := etree.NewIndentSettings()
	settings.Spaces = 2
	settings.PreserveLeafWhitespace = opts.PreserveWhitespace
	doc.IndentWithSettings(settings)
}

func workElement(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement("work:" + tag)
}

func commonElement(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement("common:" + tag)
}

// setText writes s into e using the escaping policy of e's tag.
func setText(e *etree.Element, s string) {
	if !cdataElements[e.Tag] {
		// SetData marks whitespace-only text so indentation may strip it.
		e.CreateText("").SetData(s)
		return
	}
	// "]]>" cannot appear inside a CDATA section; split it across two.
	parts := strings.Split(s, "]]>")
	for i, p := range parts {
		if i > 0 {
			p = ">" + p
		}
		if i < len(parts)-1 {
			p += "]]"
		}
		e.CreateCData(p)
	}
}
