package dialect

import (
	"github.com/FocuswithJustin/richtext/core/dom"
)

// Shape classifies an element by its local name. The set is closed: every
// element name either side of the conversion knows about has a Shape, all
// other names are ShapeOther.
type Shape uint8

// Element shapes.
const (
	ShapeOther Shape = iota
	ShapeA
	ShapeB
	ShapeBlockquote
	ShapeBr
	ShapeCode
	ShapeDel
	ShapeDiv
	ShapeEm
	ShapeFigure
	ShapeH1
	ShapeH2
	ShapeH3
	ShapeH4
	ShapeH5
	ShapeH6
	ShapeI
	ShapeImg
	ShapeLi
	ShapeOl
	ShapeP
	ShapePre
	ShapeS
	ShapeSpan
	ShapeStrike
	ShapeStrong
	ShapeSub
	ShapeSup
	ShapeTable
	ShapeTbody
	ShapeTd
	ShapeTfoot
	ShapeTh
	ShapeThead
	ShapeTr
	ShapeU
	ShapeUl

	// NumShapes is the number of shapes, for table sizing.
	NumShapes
)

var shapeNames = [NumShapes]string{
	ShapeOther:      "",
	ShapeA:          "a",
	ShapeB:          "b",
	ShapeBlockquote: "blockquote",
	ShapeBr:         "br",
	ShapeCode:       "code",
	ShapeDel:        "del",
	ShapeDiv:        "div",
	ShapeEm:         "em",
	ShapeFigure:     "figure",
	ShapeH1:         "h1",
	ShapeH2:         "h2",
	ShapeH3:         "h3",
	ShapeH4:         "h4",
	ShapeH5:         "h5",
	ShapeH6:         "h6",
	ShapeI:          "i",
	ShapeImg:        "img",
	ShapeLi:         "li",
	ShapeOl:         "ol",
	ShapeP:          "p",
	ShapePre:        "pre",
	ShapeS:          "s",
	ShapeSpan:       "span",
	ShapeStrike:     "strike",
	ShapeStrong:     "strong",
	ShapeSub:        "sub",
	ShapeSup:        "sup",
	ShapeTable:      "table",
	ShapeTbody:      "tbody",
	ShapeTd:         "td",
	ShapeTfoot:      "tfoot",
	ShapeTh:         "th",
	ShapeThead:      "thead",
	ShapeTr:         "tr",
	ShapeU:          "u",
	ShapeUl:         "ul",
}

var shapeByName = func() map[string]Shape {
	m := make(map[string]Shape, NumShapes)
	for s := ShapeOther + 1; s < NumShapes; s++ {
		m[shapeNames[s]] = s
	}
	return m
}()

// String returns the local name the shape stands for.
func (s Shape) String() string {
	if s >= NumShapes {
		return "invalid"
	}
	if s == ShapeOther {
		return "other"
	}
	return shapeNames[s]
}

// ShapeOf returns the shape for a local name.
func ShapeOf(local string) Shape {
	return shapeByName[local]
}

// Classify returns the shape of an element name. Names in a namespace other
// than the two dialect namespaces are ShapeOther; unqualified names are
// classified by local name.
func Classify(name dom.Name) Shape {
	switch name.Space {
	case RichTextNS, XHTMLNS, "":
		return shapeByName[name.Local]
	default:
		return ShapeOther
	}
}

// HeadingShape returns the shape of h<level>, or ShapeOther when level is
// outside 1..6.
func HeadingShape(level int) Shape {
	if level < 1 || level > 6 {
		return ShapeOther
	}
	return ShapeH1 + Shape(level-1)
}

// DataElements lists the element names permitted in the data dialect.
var DataElements = []string{
	"p", "ul", "ol", "li", "pre", "blockquote", "a", "span", "br",
	"em", "strong", "sub", "sup", "img", "table", "tbody", "tr", "td",
}

// IsDataElement reports whether local is a data dialect element name. The
// document element div is included.
func IsDataElement(local string) bool {
	if local == RootElement {
		return true
	}
	for _, n := range DataElements {
		if n == local {
			return true
		}
	}
	return false
}
