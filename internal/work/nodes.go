package work

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// addExternalIDNode appends common:external-id to parent.
func addExternalIDNode(parent *etree.Element, id ExternalID) *etree.Element {
	node := commonElement(parent, "external-id")
	setText(commonElement(node, "external-id-type"), id.Type)
	setText(commonElement(node, "external-id-value"), id.Value)
	if id.URL != "" {
		setText(commonElement(node, "external-id-url"), id.URL)
	}
	relationship := id.Relationship
	if relationship == "" {
		relationship = RelationshipSelf
	}
	setText(commonElement(node, "external-id-relationship"), relationship)
	return node
}

// addContributorNode appends work:contributor to parent.
func addContributorNode(parent *etree.Element, c Contributor) *etree.Element {
	node := workElement(parent, "contributor")
	if c.ORCID != "" {
		orcid := workElement(node, "contributor-orcid")
		setText(workElement(orcid, "uri"), "https://"+Hostname+"/"+c.ORCID)
		setText(workElement(orcid, "path"), c.ORCID)
		setText(workElement(orcid, "host"), Hostname)
	}
	setText(workElement(node, "credit-name"), c.FullName)

	attrs := workElement(node, "contributor-attributes")
	setText(workElement(attrs, "contributor-role"), c.Role)
	if c.Sequence != "" {
		setText(workElement(attrs, "contributor-sequence"), c.Sequence)
	}
	return node
}

// addCitationNode appends work:citation to parent. The value is plain text, not CDATA.
func addCitationNode(parent *etree.Element, citationType, value string) *etree.Element {
	node := workElement(parent, "citation")
	if citationType != "" {
		setText(workElement(node, "citation-type"), citationType)
	}
	setText(workElement(node, "citation-value"), value)
	return node
}

// addDateNode appends common:publication-date to parent.
//
// Parts are kept in order of validity: month only when the year was kept,
// day only when the month was kept. The day bound does not depend on the month.
func addDateNode(parent *etree.Element, d PublicationDate) *etree.Element {
	node := commonElement(parent, "publication-date")

	if utf8.RuneCountInString(d.Year) != 4 {
		return node
	}
	setText(commonElement(node, "year"), d.Year)

	month, ok := datePart(d.Month, 12)
	if !ok {
		return node
	}
	setText(commonElement(node, "month"), month)

	if day, ok := datePart(d.Day, 31); ok {
		setText(commonElement(node, "day"), day)
	}
	return node
}

// datePart parses a month or day within [1, hi] and returns it as two digits,
// so "3", "03", "003" and "+3" are all written "03".
func datePart(s string, hi int) (string, bool) {
	if s == "" {
		return "", false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > hi {
		return "", false
	}
	return fmt.Sprintf("%02d", n), true
}
