// Package encoding provides the text escaping used by the dialect
// serializers.
package encoding

import (
	"strings"
)

var textReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r", "&#xD;",
)

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"\t", "&#x9;",
	"\n", "&#xA;",
	"\r", "&#xD;",
)

// EscapeXMLText escapes character data for XML element content.
// Carriage returns are written as references so parsers do not normalize
// them away.
func EscapeXMLText(s string) string {
	if !strings.ContainsAny(s, "&<>\r") {
		return s
	}
	return textReplacer.Replace(s)
}

// EscapeXMLAttr escapes text for use in double quoted XML attributes.
// Whitespace characters that attribute value normalization would turn into
// spaces are written as character references.
func EscapeXMLAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"\t\n\r") {
		return s
	}
	return attrReplacer.Replace(s)
}
