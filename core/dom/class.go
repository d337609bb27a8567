package dom

import "strings"

// Classes returns the whitespace separated tokens of the class attribute.
func (t *Tree) Classes(id NodeID) []string {
	return strings.Fields(t.AttrValue(id, ClassAttr))
}

// HasClass reports whether the class attribute contains token.
func (t *Tree) HasClass(id NodeID, token string) bool {
	for _, c := range t.Classes(id) {
		if c == token {
			return true
		}
	}
	return false
}

// AddClass appends token to the class attribute unless already present.
func (t *Tree) AddClass(id NodeID, token string) {
	classes := t.Classes(id)
	for _, c := range classes {
		if c == token {
			return
		}
	}
	t.SetAttr(id, ClassAttr, strings.Join(append(classes, token), " "))
}

// RemoveClass removes every occurrence of token from the class attribute
// and reports whether there was one. The attribute is dropped once removing
// token leaves no tokens; without token the node is not touched.
func (t *Tree) RemoveClass(id NodeID, token string) bool {
	classes := t.Classes(id)
	kept := classes[:0]
	removed := false
	for _, c := range classes {
		if c == token {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	switch {
	case !removed:
		return false
	case len(kept) == 0:
		t.RemoveAttr(id, ClassAttr)
	default:
		t.SetAttr(id, ClassAttr, strings.Join(kept, " "))
	}
	return true
}

// FindClass returns the first class token accepted by match.
func (t *Tree) FindClass(id NodeID, match func(token string) bool) (string, bool) {
	for _, c := range t.Classes(id) {
		if match(c) {
			return c, true
		}
	}
	return "", false
}
