// Package xml reads and writes the CoreMedia RichText 1.0 data dialect.
//
// Documents are parsed with xmlquery and converted into a dom.Tree whose
// document children are the children of the <div> document element.
// Serialization writes such a tree back inside a <div> carrying the
// default namespace and, when used, the xlink namespace declaration.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by using Go's xml.Decoder
//     which doesn't fetch external entities by default, and Validate
//     explicitly disables entity expansion.
//   - The xmlquery library is used for parsing, which uses Go's encoding/xml
//     internally and inherits its security properties.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
)

// Format is the format name used in parse errors.
const Format = "richtext"

// Namespaces are the prefixes usable in XPath expressions.
var Namespaces = map[string]string{
	"rt":    dialect.RichTextNS,
	"xlink": dialect.XLinkNS,
}

// Document represents a parsed data dialect document.
type Document struct {
	root *xmlquery.Node
	div  *xmlquery.Node
}

// Node represents an element matched by an XPath query.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of XML validation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

// Parse parses XML data and checks that the document element is the data
// dialect <div>.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse(Format, "", err)
	}

	doc := &Document{root: root}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			doc.div = child
			break
		}
	}
	if doc.div == nil {
		return nil, &errors.ParseError{Format: Format, Message: "no document element"}
	}
	if doc.div.Data != dialect.RootElement || doc.div.NamespaceURI != dialect.RichTextNS {
		return nil, &errors.ParseError{
			Format:  Format,
			Message: fmt.Sprintf("document element is {%s}%s, want {%s}%s", doc.div.NamespaceURI, doc.div.Data, dialect.RichTextNS, dialect.RootElement),
		}
	}
	return doc, nil
}

// ParseTree parses XML data straight into a tree.
func ParseTree(data []byte) (*dom.Tree, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Tree(), nil
}

// Validate checks well-formedness and the document element.
//
// Security: This function is protected against XXE (XML External Entity) attacks
// by disabling entity expansion.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	// XXE Protection (CWE-611): Disable entity expansion to prevent XXE attacks.
	decoder.Entity = map[string]string{}

	sawRoot := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := decoder.InputPos()
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Line:    line,
				Column:  col,
				Message: err.Error(),
			})
			return result
		}
		if start, ok := tok.(xml.StartElement); ok && !sawRoot {
			sawRoot = true
			if start.Name.Local != dialect.RootElement || start.Name.Space != dialect.RichTextNS {
				line, col := decoder.InputPos()
				result.Valid = false
				result.Errors = append(result.Errors, ValidationError{
					Line:    line,
					Column:  col,
					Message: fmt.Sprintf("unexpected document element %s", start.Name.Local),
				})
			}
		}
	}

	if !sawRoot {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Line: 1, Message: "no document element"})
	}
	return result
}

// Tree converts the document to a tree. The children of the <div>
// document element become the children of the document node. Comments and
// processing instructions are dropped.
func (d *Document) Tree() *dom.Tree {
	t := dom.New()
	for child := d.div.FirstChild; child != nil; child = child.NextSibling {
		if id, ok := importNode(t, child); ok {
			t.AppendChild(t.Root(), id)
		}
	}
	return t
}

func importNode(t *dom.Tree, n *xmlquery.Node) (dom.NodeID, bool) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return t.CreateText(n.Data), true
	case xmlquery.ElementNode:
		id := t.CreateElement(dom.Name{Space: n.NamespaceURI, Local: n.Data})
		for _, attr := range n.Attr {
			if isNamespaceDecl(attr) {
				continue
			}
			t.SetAttr(id, dom.Name{Space: attr.NamespaceURI, Local: attr.Name.Local}, attr.Value)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if c, ok := importNode(t, child); ok {
				t.AppendChild(id, c)
			}
		}
		return id, true
	}
	return dom.Nil, false
}

func isNamespaceDecl(attr xmlquery.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

// XPath executes an XPath query. The prefixes in Namespaces are bound.
func (d *Document) XPath(expr string) ([]*Node, error) {
	compiled, err := xpath.CompileWithNS(expr, Namespaces)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes := xmlquery.QuerySelectorAll(d.root, compiled)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	nodes, err := d.XPath(expr)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// Name returns the local name.
func (n *Node) Name() string {
	return n.node.Data
}

// Namespace returns the namespace URI.
func (n *Node) Namespace() string {
	return n.node.NamespaceURI
}

// Attr returns the value of the attribute with the given namespace URI and
// local name.
func (n *Node) Attr(space, local string) string {
	for _, attr := range n.node.Attr {
		if attr.NamespaceURI == space && attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// Text returns the inner text content.
func (n *Node) Text() string {
	return n.node.InnerText()
}

// OuterXML returns the node serialized with its descendants.
func (n *Node) OuterXML() string {
	return n.node.OutputXML(true)
}
