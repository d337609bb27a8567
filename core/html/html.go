// Package html reads and writes the view dialect: the HTML fragment the
// editor works on.
//
// Parsing uses the HTML5 algorithm of golang.org/x/net/html in a <body>
// context, so the usual HTML fixups apply (for example a table row outside
// a section is placed into an implied <tbody>). Elements land in the XHTML
// namespace; attributes are unqualified, except those carrying the xml or
// xlink prefix.
package html

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
)

// Format is the format name used in parse errors.
const Format = "html"

var attrSpaces = map[string]string{
	"xlink": dialect.XLinkNS,
	"xml":   dialect.XMLNS,
}

var elementSpaces = map[string]string{
	"":     dialect.XHTMLNS,
	"svg":  "http://www.w3.org/2000/svg",
	"math": "http://www.w3.org/1998/Math/MathML",
}

// ParseTree parses an HTML fragment into a tree.
func ParseTree(data []byte) (*dom.Tree, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), body)
	if err != nil {
		return nil, errors.NewParse(Format, "", err)
	}

	t := dom.New()
	for _, n := range nodes {
		if id, ok := importNode(t, n); ok {
			t.AppendChild(t.Root(), id)
		}
	}
	return t, nil
}

func importNode(t *dom.Tree, n *html.Node) (dom.NodeID, bool) {
	switch n.Type {
	case html.TextNode:
		return t.CreateText(n.Data), true
	case html.ElementNode:
		id := t.CreateElement(dom.Name{Space: elementSpaces[n.Namespace], Local: n.Data})
		for _, a := range n.Attr {
			t.SetAttr(id, attrName(a), a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child, ok := importNode(t, c); ok {
				t.AppendChild(id, child)
			}
		}
		return id, true
	}
	return dom.Nil, false
}

// attrName resolves the namespace of an attribute. Outside foreign content
// the parser reports prefixed names such as xml:space verbatim, so known
// prefixes are split off here.
func attrName(a html.Attribute) dom.Name {
	if a.Namespace != "" {
		return dom.Name{Space: attrSpaces[a.Namespace], Local: a.Key}
	}
	if prefix, local, ok := strings.Cut(a.Key, ":"); ok {
		if space, known := attrSpaces[prefix]; known {
			return dom.Name{Space: space, Local: local}
		}
	}
	return dom.Local(a.Key)
}

// Render writes the document children of t as an HTML fragment.
func Render(t *dom.Tree) ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range t.Children(t.Root()) {
		for _, n := range exportNode(t, c) {
			if err := html.Render(&buf, n); err != nil {
				return nil, errors.Wrap(err, "rendering view")
			}
		}
	}
	return buf.Bytes(), nil
}

func exportNode(t *dom.Tree, id dom.NodeID) []*html.Node {
	switch t.Kind(id) {
	case dom.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: t.Text(id)}}
	case dom.FragmentNode, dom.DocumentNode:
		var out []*html.Node
		for _, c := range t.Children(id) {
			out = append(out, exportNode(t, c)...)
		}
		return out
	}

	name := t.Name(id)
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      name.Local,
		DataAtom:  atom.Lookup([]byte(name.Local)),
		Namespace: elementPrefix(name.Space),
	}
	for _, a := range t.Attrs(id) {
		n.Attr = append(n.Attr, html.Attribute{Namespace: attrPrefix(a.Name.Space), Key: a.Name.Local, Val: a.Value})
	}
	for _, c := range t.Children(id) {
		for _, child := range exportNode(t, c) {
			n.AppendChild(child)
		}
	}
	return []*html.Node{n}
}

func elementPrefix(space string) string {
	for prefix, uri := range elementSpaces {
		if uri == space {
			return prefix
		}
	}
	return ""
}

func attrPrefix(space string) string {
	for prefix, uri := range attrSpaces {
		if uri == space {
			return prefix
		}
	}
	return ""
}
