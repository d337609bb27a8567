// Package dom provides the arena document tree that both markup dialects are
// converted through.
//
// Nodes live in a single slice owned by a Tree and are referenced by NodeID
// handles. A handle is only meaningful for the tree that created it. The
// parent relation exists for structural edits (insert, detach, move); node
// identity is always the handle itself.
package dom

import (
	"strings"
)

// NodeID is a handle to a node in a Tree.
type NodeID int32

// Nil is the absent node handle.
const Nil NodeID = -1

// Kind identifies the kind of a node.
type Kind uint8

const (
	// DocumentNode is the root of every tree.
	DocumentNode Kind = iota
	// ElementNode carries a qualified name, attributes and children.
	ElementNode
	// TextNode is a leaf carrying character data.
	TextNode
	// FragmentNode is a childless container whose children are spliced into
	// the parent when it is attached.
	FragmentNode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	default:
		return "unknown"
	}
}

// Name is a namespace qualified name.
type Name struct {
	Space string
	Local string
}

// Local returns an unqualified name.
func Local(local string) Name {
	return Name{Local: local}
}

// String returns "{space}local", or just local for unqualified names.
func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Attr is a single attribute.
type Attr struct {
	Name  Name
	Value string
}

// ClassAttr is the name of the class attribute in both dialects.
var ClassAttr = Local("class")

type node struct {
	kind     Kind
	name     Name
	attrs    []Attr
	text     string
	parent   NodeID
	children []NodeID
}

// Tree is an arena of nodes rooted at a document node.
type Tree struct {
	nodes []node
}

// New returns a tree holding only its document node.
func New() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, node{kind: DocumentNode, parent: Nil})
	return t
}

// Root returns the document node.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of allocated nodes, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Valid reports whether id refers to a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

func (t *Tree) alloc(n node) NodeID {
	n.parent = Nil
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) at(id NodeID) *node {
	if !t.Valid(id) {
		panic("dom: invalid node handle")
	}
	return &t.nodes[id]
}

// CreateElement allocates a detached element.
func (t *Tree) CreateElement(name Name, attrs ...Attr) NodeID {
	n := node{kind: ElementNode, name: name}
	for _, a := range attrs {
		n.attrs = setAttr(n.attrs, a.Name, a.Value)
	}
	return t.alloc(n)
}

// CreateText allocates a detached text node.
func (t *Tree) CreateText(s string) NodeID {
	return t.alloc(node{kind: TextNode, text: s})
}

// CreateFragment allocates an empty fragment.
func (t *Tree) CreateFragment() NodeID {
	return t.alloc(node{kind: FragmentNode})
}

// Kind returns the kind of id.
func (t *Tree) Kind(id NodeID) Kind {
	return t.at(id).kind
}

// IsElement reports whether id is a valid element.
func (t *Tree) IsElement(id NodeID) bool {
	return t.Valid(id) && t.nodes[id].kind == ElementNode
}

// IsFragment reports whether id is a valid fragment.
func (t *Tree) IsFragment(id NodeID) bool {
	return t.Valid(id) && t.nodes[id].kind == FragmentNode
}

// Name returns the qualified name of an element.
func (t *Tree) Name(id NodeID) Name {
	return t.at(id).name
}

// LocalName returns the local name of an element.
func (t *Tree) LocalName(id NodeID) string {
	return t.at(id).name.Local
}

// SetName replaces the qualified name of an element.
func (t *Tree) SetName(id NodeID, name Name) {
	t.at(id).name = name
}

// Rename changes the local name of an element, keeping its namespace.
func (t *Tree) Rename(id NodeID, local string) {
	t.at(id).name.Local = local
}

// Text returns the character data of a text node.
func (t *Tree) Text(id NodeID) string {
	return t.at(id).text
}

// SetText replaces the character data of a text node.
func (t *Tree) SetText(id NodeID, s string) {
	t.at(id).text = s
}

// Attr returns the value of the named attribute.
func (t *Tree) Attr(id NodeID, name Name) (string, bool) {
	for _, a := range t.at(id).attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute or "".
func (t *Tree) AttrValue(id NodeID, name Name) string {
	v, _ := t.Attr(id, name)
	return v
}

// HasAttr reports whether the named attribute is present.
func (t *Tree) HasAttr(id NodeID, name Name) bool {
	_, ok := t.Attr(id, name)
	return ok
}

// SetAttr sets an attribute, replacing an existing value in place.
func (t *Tree) SetAttr(id NodeID, name Name, value string) {
	n := t.at(id)
	n.attrs = setAttr(n.attrs, name, value)
}

// RemoveAttr removes an attribute and returns its former value.
func (t *Tree) RemoveAttr(id NodeID, name Name) (string, bool) {
	n := t.at(id)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes of id.
func (t *Tree) Attrs(id NodeID) []Attr {
	attrs := t.at(id).attrs
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}

// CopyAttrs sets every attribute of from onto to, overwriting values
// already present on to.
func (t *Tree) CopyAttrs(from, to NodeID) {
	for _, a := range t.at(from).attrs {
		t.SetAttr(to, a.Name, a.Value)
	}
}

func setAttr(attrs []Attr, name Name, value string) []Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}

// Parent returns the parent of id, or Nil when detached.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.at(id).parent
}

// Children returns a snapshot of the children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	children := t.at(id).children
	if len(children) == 0 {
		return nil
	}
	out := make([]NodeID, len(children))
	copy(out, children)
	return out
}

// ChildCount returns the number of children of id.
func (t *Tree) ChildCount(id NodeID) int {
	return len(t.at(id).children)
}

// Child returns the i-th child of id.
func (t *Tree) Child(id NodeID, i int) NodeID {
	return t.at(id).children[i]
}

// IndexOf returns the position of child within parent, or -1.
func (t *Tree) IndexOf(parent, child NodeID) int {
	for i, c := range t.at(parent).children {
		if c == child {
			return i
		}
	}
	return -1
}

// Detach removes id from its parent. Detaching a detached node is a no-op.
func (t *Tree) Detach(id NodeID) {
	n := t.at(id)
	if n.parent == Nil {
		return
	}
	p := t.at(n.parent)
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = Nil
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.InsertAt(parent, t.ChildCount(parent), child)
}

// InsertAt inserts children at position index of parent, in order. Each
// child is detached from its previous parent first. Index is clamped to the
// valid range after the detaches.
func (t *Tree) InsertAt(parent NodeID, index int, children ...NodeID) {
	for _, c := range children {
		if c == parent {
			panic("dom: cannot insert a node into itself")
		}
		if t.at(c).parent == parent && t.IndexOf(parent, c) < index {
			index--
		}
		t.Detach(c)
	}
	p := t.at(parent)
	if index < 0 {
		index = 0
	}
	if index > len(p.children) {
		index = len(p.children)
	}
	tail := append([]NodeID(nil), p.children[index:]...)
	p.children = append(p.children[:index], children...)
	p.children = append(p.children, tail...)
	for _, c := range children {
		t.nodes[c].parent = parent
	}
}

// MoveRange moves children[start:end] of from to the end of to, keeping
// their order.
func (t *Tree) MoveRange(from NodeID, start, end int, to NodeID) {
	moved := append([]NodeID(nil), t.at(from).children[start:end]...)
	for _, c := range moved {
		t.AppendChild(to, c)
	}
}

// MoveChildren moves every child of from to the end of to.
func (t *Tree) MoveChildren(from, to NodeID) {
	t.MoveRange(from, 0, t.ChildCount(from), to)
}

// Import deep-copies the subtree rooted at id in src into t and returns the
// detached copy. Document nodes are imported as fragments.
func (t *Tree) Import(src *Tree, id NodeID) NodeID {
	sn := src.at(id)
	n := node{kind: sn.kind, name: sn.name, text: sn.text}
	if n.kind == DocumentNode {
		n.kind = FragmentNode
	}
	if len(sn.attrs) > 0 {
		n.attrs = append([]Attr(nil), sn.attrs...)
	}
	copyID := t.alloc(n)
	for _, c := range sn.children {
		t.AppendChild(copyID, t.Import(src, c))
	}
	return copyID
}

// TextContent concatenates the text of every descendant text node.
func (t *Tree) TextContent(id NodeID) string {
	var sb strings.Builder
	t.textContent(&sb, id)
	return sb.String()
}

func (t *Tree) textContent(sb *strings.Builder, id NodeID) {
	n := t.at(id)
	if n.kind == TextNode {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		t.textContent(sb, c)
	}
}

// Elements returns the element children of id with the given local name.
func (t *Tree) Elements(id NodeID, local string) []NodeID {
	var out []NodeID
	for _, c := range t.at(id).children {
		if t.nodes[c].kind == ElementNode && t.nodes[c].name.Local == local {
			out = append(out, c)
		}
	}
	return out
}
