package dom

import (
	"fmt"
	"sort"
	"strings"
)

// Equal reports whether the subtree at aID in a and the subtree at bID in b
// are structurally equivalent. Attribute order is ignored, and so is the
// difference between a document node and a fragment.
func Equal(a *Tree, aID NodeID, b *Tree, bID NodeID) bool {
	an, bn := a.at(aID), b.at(bID)
	if container(an.kind) != container(bn.kind) {
		return false
	}
	switch an.kind {
	case TextNode:
		return an.text == bn.text
	case ElementNode:
		if an.name != bn.name || !sameAttrs(an.attrs, bn.attrs) {
			return false
		}
	}
	if len(an.children) != len(bn.children) {
		return false
	}
	for i := range an.children {
		if !Equal(a, an.children[i], b, bn.children[i]) {
			return false
		}
	}
	return true
}

func container(k Kind) Kind {
	if k == FragmentNode {
		return DocumentNode
	}
	return k
}

func sameAttrs(x, y []Attr) bool {
	if len(x) != len(y) {
		return false
	}
	for _, a := range x {
		found := false
		for _, b := range y {
			if a == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Dump renders the subtree at id in a compact, attribute-sorted notation
// such as `p[class="x"]("text" br)`. Namespaces are omitted. It is meant for
// test failure messages and debug logging.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID) {
	n := t.at(id)
	switch n.kind {
	case TextNode:
		fmt.Fprintf(sb, "%q", n.text)
		return
	case ElementNode:
		sb.WriteString(n.name.Local)
		if len(n.attrs) > 0 {
			parts := make([]string, len(n.attrs))
			for i, a := range n.attrs {
				parts[i] = fmt.Sprintf("%s=%q", a.Name.Local, a.Value)
			}
			sort.Strings(parts)
			sb.WriteString("[" + strings.Join(parts, " ") + "]")
		}
	case FragmentNode:
		sb.WriteString("#fragment")
	case DocumentNode:
		sb.WriteString("#document")
	}
	if len(n.children) == 0 {
		return
	}
	sb.WriteString("(")
	for i, c := range n.children {
		if i > 0 {
			sb.WriteString(" ")
		}
		t.dump(sb, c)
	}
	sb.WriteString(")")
}
