package dom

import (
	"testing"
)

func buildList(t *Tree, items ...string) NodeID {
	ul := t.CreateElement(Local("ul"))
	for _, item := range items {
		li := t.CreateElement(Local("li"))
		t.AppendChild(li, t.CreateText(item))
		t.AppendChild(ul, li)
	}
	t.AppendChild(t.Root(), ul)
	return ul
}

// TestNewTree verifies a fresh tree holds only its document node.
func TestNewTree(t *testing.T) {
	tree := New()
	if tree.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tree.Len())
	}
	if tree.Kind(tree.Root()) != DocumentNode {
		t.Errorf("Kind(Root()) = %v, want document", tree.Kind(tree.Root()))
	}
	if tree.Parent(tree.Root()) != Nil {
		t.Errorf("root has a parent")
	}
}

// TestAttributes verifies set, replace and remove keep values unique.
func TestAttributes(t *testing.T) {
	tree := New()
	p := tree.CreateElement(Local("p"), Attr{Name: Local("dir"), Value: "ltr"})

	tree.SetAttr(p, Local("lang"), "en")
	tree.SetAttr(p, Local("dir"), "rtl")

	if got := tree.AttrValue(p, Local("dir")); got != "rtl" {
		t.Errorf("dir = %q, want rtl", got)
	}
	if n := len(tree.Attrs(p)); n != 2 {
		t.Errorf("len(Attrs) = %d, want 2", n)
	}
	if v, ok := tree.RemoveAttr(p, Local("lang")); !ok || v != "en" {
		t.Errorf("RemoveAttr(lang) = %q, %v", v, ok)
	}
	if tree.HasAttr(p, Local("lang")) {
		t.Error("lang still present after RemoveAttr")
	}
	if _, ok := tree.RemoveAttr(p, Local("missing")); ok {
		t.Error("RemoveAttr reported a missing attribute as removed")
	}
}

// TestNamespacedAttributes verifies that names with different namespaces
// are distinct.
func TestNamespacedAttributes(t *testing.T) {
	tree := New()
	a := tree.CreateElement(Local("a"))
	tree.SetAttr(a, Name{Space: "urn:x", Local: "href"}, "qualified")
	tree.SetAttr(a, Local("href"), "plain")

	if got := tree.AttrValue(a, Name{Space: "urn:x", Local: "href"}); got != "qualified" {
		t.Errorf("qualified href = %q", got)
	}
	if got := tree.AttrValue(a, Local("href")); got != "plain" {
		t.Errorf("plain href = %q", got)
	}
}

// TestInsertAndDetach verifies structural edits keep parent links in sync.
func TestInsertAndDetach(t *testing.T) {
	tree := New()
	ul := buildList(tree, "a", "b", "c")
	items := tree.Children(ul)

	tree.Detach(items[1])
	if tree.ChildCount(ul) != 2 {
		t.Fatalf("ChildCount = %d, want 2", tree.ChildCount(ul))
	}
	if tree.Parent(items[1]) != Nil {
		t.Error("detached node kept its parent")
	}

	tree.InsertAt(ul, 0, items[1])
	if got := tree.Dump(ul); got != `ul(li("b") li("a") li("c"))` {
		t.Errorf("Dump = %s", got)
	}

	// Re-inserting an attached child moves it.
	tree.InsertAt(ul, 3, items[1])
	if got := tree.Dump(ul); got != `ul(li("a") li("c") li("b"))` {
		t.Errorf("Dump after move = %s", got)
	}
}

// TestMoveRange verifies a child range moves in order.
func TestMoveRange(t *testing.T) {
	tree := New()
	from := buildList(tree, "1", "2", "3", "4")
	to := buildList(tree, "x")

	tree.MoveRange(from, 1, 3, to)

	if got := tree.Dump(from); got != `ul(li("1") li("4"))` {
		t.Errorf("from = %s", got)
	}
	if got := tree.Dump(to); got != `ul(li("x") li("2") li("3"))` {
		t.Errorf("to = %s", got)
	}
	for _, c := range tree.Children(to) {
		if tree.Parent(c) != to {
			t.Errorf("child %d has parent %d, want %d", c, tree.Parent(c), to)
		}
	}

	tree.MoveChildren(from, to)
	if tree.ChildCount(from) != 0 {
		t.Errorf("from still has %d children", tree.ChildCount(from))
	}
	if tree.ChildCount(to) != 5 {
		t.Errorf("to has %d children, want 5", tree.ChildCount(to))
	}
}

// TestInsertSelfPanics verifies a node cannot become its own child.
func TestInsertSelfPanics(t *testing.T) {
	tree := New()
	p := tree.CreateElement(Local("p"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	tree.AppendChild(p, p)
}

// TestImport verifies deep copies between trees.
func TestImport(t *testing.T) {
	src := New()
	ul := buildList(src, "a", "b")
	src.SetAttr(ul, Local("class"), "list")

	dst := New()
	copied := dst.Import(src, ul)
	dst.AppendChild(dst.Root(), copied)

	if !Equal(src, ul, dst, copied) {
		t.Errorf("Import mismatch: %s vs %s", src.Dump(ul), dst.Dump(copied))
	}

	// The copy is independent.
	dst.SetAttr(copied, Local("class"), "changed")
	if src.AttrValue(ul, Local("class")) != "list" {
		t.Error("Import shares attribute storage")
	}
	if got := dst.TextContent(copied); got != "ab" {
		t.Errorf("TextContent = %q, want ab", got)
	}
}

// TestEqualIgnoresAttributeOrder verifies structural equality.
func TestEqualIgnoresAttributeOrder(t *testing.T) {
	a := New()
	x := a.CreateElement(Local("img"), Attr{Name: Local("alt"), Value: ""}, Attr{Name: Local("src"), Value: "s"})
	b := New()
	y := b.CreateElement(Local("img"), Attr{Name: Local("src"), Value: "s"}, Attr{Name: Local("alt"), Value: ""})

	if !Equal(a, x, b, y) {
		t.Error("attribute order should not matter")
	}

	b.SetAttr(y, Local("alt"), "x")
	if Equal(a, x, b, y) {
		t.Error("different attribute values compared equal")
	}
}

// TestEqualDocumentAndFragment verifies containers compare by children.
func TestEqualDocumentAndFragment(t *testing.T) {
	a := New()
	a.AppendChild(a.Root(), a.CreateText("t"))
	b := New()
	frag := b.CreateFragment()
	b.AppendChild(frag, b.CreateText("t"))

	if !Equal(a, a.Root(), b, frag) {
		t.Error("document and fragment with same children should be equal")
	}
}

// TestClasses verifies class token helpers.
func TestClasses(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		remove  string
		want    string
		present bool
		removed bool
	}{
		{"single token", "underline", "underline", "", false, true},
		{"keeps others", "a underline b", "underline", "a b", true, true},
		{"not present", "a b", "underline", "a b", true, false},
		{"not present keeps spacing", " a  b ", "underline", " a  b ", true, false},
		{"duplicate tokens", "x x", "x", "", false, true},
		{"empty attribute kept", "", "underline", "", true, false},
		{"blank attribute kept", "  ", "underline", "  ", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New()
			span := tree.CreateElement(Local("span"))
			tree.SetAttr(span, ClassAttr, tt.initial)

			if removed := tree.RemoveClass(span, tt.remove); removed != tt.removed {
				t.Errorf("RemoveClass = %v, want %v", removed, tt.removed)
			}

			got, ok := tree.Attr(span, ClassAttr)
			if ok != tt.present {
				t.Fatalf("class present = %v, want %v", ok, tt.present)
			}
			if got != tt.want {
				t.Errorf("class = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRemoveClassWithoutAttribute verifies a node without class is left
// without one.
func TestRemoveClassWithoutAttribute(t *testing.T) {
	tree := New()
	span := tree.CreateElement(Local("span"))
	if tree.RemoveClass(span, "underline") {
		t.Error("RemoveClass = true, want false")
	}
	if tree.HasAttr(span, ClassAttr) {
		t.Error("class attribute should not be created")
	}
}

// TestAddClass verifies tokens are appended once.
func TestAddClass(t *testing.T) {
	tree := New()
	p := tree.CreateElement(Local("p"))

	tree.AddClass(p, "p--div")
	tree.AddClass(p, "p--div")
	tree.AddClass(p, "other")

	if got := tree.AttrValue(p, ClassAttr); got != "p--div other" {
		t.Errorf("class = %q, want %q", got, "p--div other")
	}
	if tok, ok := tree.FindClass(p, func(s string) bool { return s == "other" }); !ok || tok != "other" {
		t.Errorf("FindClass = %q, %v", tok, ok)
	}
}
