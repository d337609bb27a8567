package xml

import (
	"bytes"
	"strconv"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/encoding"
)

// SerializeOptions controls data dialect serialization.
type SerializeOptions struct {
	// Declaration writes an XML declaration before the document element.
	Declaration bool
}

// Serialize writes the document children of t as a data dialect document.
func Serialize(t *dom.Tree) []byte {
	return SerializeWith(t, SerializeOptions{})
}

// SerializeWith is Serialize with options.
func SerializeWith(t *dom.Tree, opts SerializeOptions) []byte {
	var buf bytes.Buffer
	if opts.Declaration {
		buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	}

	buf.WriteString(`<div xmlns="`)
	buf.WriteString(dialect.RichTextNS)
	buf.WriteString(`"`)
	if usesXLink(t, t.Root()) {
		buf.WriteString(` xmlns:xlink="`)
		buf.WriteString(dialect.XLinkNS)
		buf.WriteString(`"`)
	}

	children := t.Children(t.Root())
	if len(children) == 0 {
		buf.WriteString("/>")
		return buf.Bytes()
	}
	buf.WriteString(">")
	w := &writer{buf: &buf, tree: t}
	for _, c := range children {
		w.node(c)
	}
	buf.WriteString("</div>")
	return buf.Bytes()
}

func usesXLink(t *dom.Tree, id dom.NodeID) bool {
	if t.IsElement(id) {
		for _, a := range t.Attrs(id) {
			if a.Name.Space == dialect.XLinkNS {
				return true
			}
		}
	}
	for _, c := range t.Children(id) {
		if usesXLink(t, c) {
			return true
		}
	}
	return false
}

type writer struct {
	buf   *bytes.Buffer
	tree  *dom.Tree
	extra int
}

func (w *writer) node(id dom.NodeID) {
	t := w.tree
	switch t.Kind(id) {
	case dom.TextNode:
		w.buf.WriteString(encoding.EscapeXMLText(t.Text(id)))
		return
	case dom.FragmentNode, dom.DocumentNode:
		for _, c := range t.Children(id) {
			w.node(c)
		}
		return
	}

	// Elements of other namespaces get a prefix so the default namespace
	// stays the data namespace for their children.
	name := t.Name(id)
	declared := map[string]string{}
	tag := name.Local
	if name.Space != "" && name.Space != dialect.RichTextNS {
		prefix := w.nextPrefix()
		declared[name.Space] = prefix
		tag = prefix + ":" + name.Local
	}
	w.buf.WriteString("<")
	w.buf.WriteString(tag)
	if prefix, ok := declared[name.Space]; ok {
		w.attr("xmlns:"+prefix, name.Space)
	}

	for _, a := range t.Attrs(id) {
		w.attr(w.attrName(a.Name, declared), a.Value)
	}

	children := t.Children(id)
	if len(children) == 0 {
		w.buf.WriteString("/>")
		return
	}
	w.buf.WriteString(">")
	for _, c := range children {
		w.node(c)
	}
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteString(">")
}

// attrName returns the prefixed attribute name, declaring a generated
// prefix for namespaces other than xlink and xml.
func (w *writer) attrName(name dom.Name, declared map[string]string) string {
	switch name.Space {
	case "":
		return name.Local
	case dialect.XLinkNS:
		return "xlink:" + name.Local
	case dialect.XMLNS:
		return "xml:" + name.Local
	}
	prefix, ok := declared[name.Space]
	if !ok {
		prefix = w.nextPrefix()
		declared[name.Space] = prefix
		w.attr("xmlns:"+prefix, name.Space)
	}
	return prefix + ":" + name.Local
}

func (w *writer) nextPrefix() string {
	w.extra++
	return "ns" + strconv.Itoa(w.extra)
}

func (w *writer) attr(name, value string) {
	w.buf.WriteString(" ")
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	w.buf.WriteString(encoding.EscapeXMLAttr(value))
	w.buf.WriteString(`"`)
}
