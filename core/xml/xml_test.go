package xml

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
)

const header = `<div xmlns="http://www.coremedia.com/2003/richtext-1.0" xmlns:xlink="http://www.w3.org/1999/xlink">`

// TestParseValidRichText verifies parsing of a well-formed data document.
func TestParseValidRichText(t *testing.T) {
	data := `<?xml version="1.0" encoding="utf-8"?>` + header +
		`<p>Hello <a xlink:href="content/1">link</a></p><pre xml:space="preserve">T</pre></div>`

	tree, err := ParseTree([]byte(data))
	if err != nil {
		t.Fatalf("ParseTree failed: %v", err)
	}

	children := tree.Children(tree.Root())
	if len(children) != 2 {
		t.Fatalf("document children = %d, want 2", len(children))
	}

	p := children[0]
	if got := tree.Name(p); got != (dom.Name{Space: dialect.RichTextNS, Local: "p"}) {
		t.Errorf("Name(p) = %v", got)
	}
	a := tree.Child(p, 1)
	if got := tree.AttrValue(a, dialect.XLink("href")); got != "content/1" {
		t.Errorf("xlink:href = %q, want content/1", got)
	}
	if n := len(tree.Attrs(a)); n != 1 {
		t.Errorf("a has %d attributes, want 1 (namespace declarations must be dropped)", n)
	}

	pre := children[1]
	if got := tree.AttrValue(pre, dialect.XML("space")); got != "preserve" {
		t.Errorf("xml:space = %q, want preserve", got)
	}
}

// TestParseInvalidXML verifies error handling for malformed XML.
func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", header + "<p></div>"},
		{"mismatched tags", "<div></other>"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.xml))
			if err == nil {
				t.Fatal("Parse should fail for invalid XML")
			}
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %T is not a ParseError", err)
			}
		})
	}
}

// TestParseWrongRoot verifies the document element is checked.
func TestParseWrongRoot(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"wrong element", `<p xmlns="http://www.coremedia.com/2003/richtext-1.0"/>`},
		{"no namespace", `<div><p/></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.xml))
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Parse error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// TestSerializeRoundTrip verifies canonical documents survive a
// parse/serialize cycle byte for byte.
func TestSerializeRoundTrip(t *testing.T) {
	tests := []string{
		header + `<p>Hello <a xlink:href="content/1" xlink:show="new">link</a></p></div>`,
		`<div xmlns="http://www.coremedia.com/2003/richtext-1.0"><p class="p--heading-1">T</p><p>a<br/>b</p></div>`,
		header + `<p><img alt="" xlink:href="content/0#properties.data"/></p></div>`,
		`<div xmlns="http://www.coremedia.com/2003/richtext-1.0"><pre xml:space="preserve">a &amp; b &lt; c</pre></div>`,
		`<div xmlns="http://www.coremedia.com/2003/richtext-1.0"/>`,
	}

	for _, in := range tests {
		tree, err := ParseTree([]byte(in))
		if err != nil {
			t.Fatalf("ParseTree(%q) failed: %v", in, err)
		}
		if got := string(Serialize(tree)); got != in {
			t.Errorf("Serialize =\n%s\nwant\n%s", got, in)
		}
	}
}

// TestSerializeDeclaresXLinkOnDemand verifies the xlink declaration is only
// written when an attribute uses it.
func TestSerializeDeclaresXLinkOnDemand(t *testing.T) {
	tree := dom.New()
	p := tree.CreateElement(dom.Name{Space: dialect.RichTextNS, Local: "p"})
	tree.AppendChild(tree.Root(), p)

	if strings.Contains(string(Serialize(tree)), "xmlns:xlink") {
		t.Error("xlink declared without xlink attributes")
	}

	a := tree.CreateElement(dom.Name{Space: dialect.RichTextNS, Local: "a"})
	tree.SetAttr(a, dialect.XLink("href"), "content/2")
	tree.AppendChild(p, a)

	out := string(SerializeWith(tree, SerializeOptions{Declaration: true}))
	want := `<?xml version="1.0" encoding="utf-8"?>` + header + `<p><a xlink:href="content/2"/></p></div>`
	if out != want {
		t.Errorf("Serialize = %s, want %s", out, want)
	}
}

// TestSerializeForeignAttribute verifies attributes of unknown namespaces
// get a declared prefix.
func TestSerializeForeignAttribute(t *testing.T) {
	tree := dom.New()
	p := tree.CreateElement(dom.Name{Space: dialect.RichTextNS, Local: "p"})
	tree.SetAttr(p, dom.Name{Space: "urn:x", Local: "id"}, "1")
	tree.AppendChild(tree.Root(), p)

	out := string(Serialize(tree))
	if !strings.Contains(out, `<p xmlns:ns1="urn:x" ns1:id="1"/>`) {
		t.Errorf("Serialize = %s", out)
	}

	reparsed, err := ParseTree([]byte(out))
	if err != nil {
		t.Fatalf("ParseTree failed: %v", err)
	}
	if !dom.Equal(tree, tree.Root(), reparsed, reparsed.Root()) {
		t.Errorf("reparsed tree differs: %s", reparsed.Dump(reparsed.Root()))
	}
}

// TestSerializeForeignElement verifies elements of unknown namespaces are
// prefixed and data children below them keep the data namespace.
func TestSerializeForeignElement(t *testing.T) {
	tree := dom.New()
	p := tree.CreateElement(dom.Name{Space: dialect.RichTextNS, Local: "p"})
	box := tree.CreateElement(dom.Name{Space: "urn:x", Local: "box"})
	tree.SetAttr(box, dom.Name{Space: "urn:x", Local: "id"}, "1")
	em := tree.CreateElement(dom.Name{Space: dialect.RichTextNS, Local: "em"})
	tree.AppendChild(em, tree.CreateText("T"))
	tree.AppendChild(box, em)
	tree.AppendChild(p, box)
	tree.AppendChild(tree.Root(), p)

	out := string(Serialize(tree))
	if !strings.Contains(out, `<ns1:box xmlns:ns1="urn:x" ns1:id="1"><em>T</em></ns1:box>`) {
		t.Errorf("Serialize = %s", out)
	}

	reparsed, err := ParseTree([]byte(out))
	if err != nil {
		t.Fatalf("ParseTree failed: %v", err)
	}
	if !dom.Equal(tree, tree.Root(), reparsed, reparsed.Root()) {
		t.Errorf("reparsed tree differs: %s", reparsed.Dump(reparsed.Root()))
	}
}

// TestXPath verifies namespace-aware queries.
func TestXPath(t *testing.T) {
	data := header + `<p>one</p><p><a xlink:href="content/4">two</a></p></div>`
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	nodes, err := doc.XPath("//rt:p")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("XPath returned %d nodes, want 2", len(nodes))
	}
	if nodes[0].Text() != "one" || nodes[0].Name() != "p" || nodes[0].Namespace() != dialect.RichTextNS {
		t.Errorf("first node = %s", nodes[0].OuterXML())
	}

	a, err := doc.XPathFirst("//rt:a[@xlink:href]")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if a == nil {
		t.Fatal("XPathFirst returned nil")
	}
	if got := a.Attr(dialect.XLinkNS, "href"); got != "content/4" {
		t.Errorf("href = %q", got)
	}

	missing, err := doc.XPathFirst("//rt:table")
	if err != nil || missing != nil {
		t.Errorf("XPathFirst(table) = %v, %v", missing, err)
	}

	if _, err := doc.XPath("//["); err == nil {
		t.Error("invalid XPath should fail")
	}
}

// TestValidate verifies well-formedness and document element checks.
func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{"valid", header + "<p/></div>", true},
		{"malformed", header + "<p></div>", false},
		{"wrong root", "<html/>", false},
		{"empty", "", false},
		{"entity", `<!DOCTYPE div [<!ENTITY e "x">]>` + header + "<p>&e;</p></div>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.data))
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors %v)", result.Valid, tt.valid, result.Errors)
			}
			if !tt.valid && len(result.Errors) == 0 {
				t.Error("invalid result without errors")
			}
		})
	}
}
