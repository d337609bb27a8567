// Package contentref parses the content references carried in xlink:href
// attributes of the data dialect, such as "content/42" for a link target or
// "content/42#properties.data" for the blob property an image shows.
package contentref

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/richtext/core/errors"
)

// Ref is a parsed content reference.
type Ref struct {
	// ContentID is the numeric content id.
	ContentID int `json:"content_id"`

	// Property is the dotted property path after "#properties.", if any.
	Property string `json:"property,omitempty"`
}

// refGrammar is the participle grammar for content references.
// Examples: "content/0", "content/42#properties.data", "content/7#properties.pictures.data"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Scheme   string        `@"content" "/"`
	ID       int           `@Int`
	Property *propertyPart `( "#" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type propertyPart struct {
	Path []string `"properties" ( "." @Ident )+`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Punct", Pattern: `[/#.]`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
)

// Parse parses a content reference.
func Parse(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &errors.ParseError{Format: "content reference", Message: "empty reference"}
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, errors.NewParse("content reference", "", err)
	}

	ref := &Ref{ContentID: parsed.ID}
	if parsed.Property != nil {
		ref.Property = strings.Join(parsed.Property.Path, ".")
	}
	return ref, nil
}

// IsContentRef reports whether s parses as a content reference.
func IsContentRef(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String returns the canonical reference form.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString("content/")
	sb.WriteString(strconv.Itoa(r.ContentID))
	if r.Property != "" {
		sb.WriteString("#properties.")
		sb.WriteString(r.Property)
	}
	return sb.String()
}
