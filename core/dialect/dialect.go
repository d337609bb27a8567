// Package dialect names the two markup dialects handled by the converter:
// the CoreMedia RichText 1.0 data dialect and the HTML view dialect used by
// the editor.
package dialect

import (
	"github.com/FocuswithJustin/richtext/core/dom"
)

// Namespaces.
const (
	// RichTextNS is the default namespace of the data dialect.
	RichTextNS = "http://www.coremedia.com/2003/richtext-1.0"
	// XLinkNS is the link namespace of the data dialect.
	XLinkNS = "http://www.w3.org/1999/xlink"
	// XMLNS is the namespace bound to the reserved xml prefix.
	XMLNS = "http://www.w3.org/XML/1998/namespace"
	// XHTMLNS is the default namespace of the view dialect.
	XHTMLNS = "http://www.w3.org/1999/xhtml"
)

// Reserved class tokens of the data dialect.
const (
	ClassHeadingPrefix = "p--heading-"
	ClassDiv           = "p--div"
	ClassHeaderCell    = "td--header"
	ClassHeaderRow     = "tr--header"
	ClassFooterRow     = "tr--footer"
	ClassUnderline     = "underline"
	ClassStrike        = "strike"
	ClassCode          = "code"
)

// RootElement is the local name of the data dialect document element.
const RootElement = "div"

// XLink returns the name of an attribute in the link namespace.
func XLink(local string) dom.Name {
	return dom.Name{Space: XLinkNS, Local: local}
}

// XML returns the name of an attribute in the xml namespace.
func XML(local string) dom.Name {
	return dom.Name{Space: XMLNS, Local: local}
}

// ShadowPrefix prefixes dataset attributes standing in for link namespace
// attributes on view elements.
const ShadowPrefix = "data-xlink-"

// XLinkAttrs lists the link namespace attributes with a shadow counterpart.
var XLinkAttrs = []string{"href", "type", "show", "role", "title", "actuate"}

// Shadow returns the view dataset attribute standing in for xlink:local.
func Shadow(local string) dom.Name {
	return dom.Local(ShadowPrefix + local)
}

// DefaultNamespace returns the element namespace of the target dialect.
func DefaultNamespace(toData bool) string {
	if toData {
		return RichTextNS
	}
	return XHTMLNS
}
