package richtext

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/richtext/core/contentref"
	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// PlaceholderSource is a transparent 1x1 GIF shown for images whose
// reference is not resolved.
const PlaceholderSource = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

// SourceResolver computes the display source of a view image from its
// xlink:href. ref is the parsed reference, nil if href is not a content
// reference.
type SourceResolver interface {
	ResolveSource(href string, ref *contentref.Ref) string
}

// SourceResolverFunc adapts a function to SourceResolver.
type SourceResolverFunc func(href string, ref *contentref.Ref) string

// ResolveSource calls f.
func (f SourceResolverFunc) ResolveSource(href string, ref *contentref.Ref) string {
	return f(href, ref)
}

// PlaceholderResolver resolves every image to PlaceholderSource.
var PlaceholderResolver = SourceResolverFunc(func(string, *contentref.Ref) string {
	return PlaceholderSource
})

// TemplateResolver expands a URL template for content references. The
// placeholders {id}, {property} and {href} are replaced; references that do
// not parse resolve to PlaceholderSource.
type TemplateResolver string

// ResolveSource implements SourceResolver.
func (tmpl TemplateResolver) ResolveSource(href string, ref *contentref.Ref) string {
	if ref == nil {
		return PlaceholderSource
	}
	return strings.NewReplacer(
		"{id}", strconv.Itoa(ref.ContentID),
		"{property}", ref.Property,
		"{href}", href,
	).Replace(string(tmpl))
}

// ImageOption configures ImageRule.
type ImageOption func(*imageConfig)

type imageConfig struct {
	resolver SourceResolver
}

// WithSourceResolver sets the resolver for view image sources.
func WithSourceResolver(r SourceResolver) ImageOption {
	return func(c *imageConfig) {
		if r != nil {
			c.resolver = r
		}
	}
}

// ImageRule maps images between the dialects.
//
// View images carry their link attributes as data-xlink-* shadow
// attributes; towards data they become xlink attributes, a missing alt is
// set to "", and the derived src and title are dropped. An image left
// without xlink:href is removed. Towards the view the xlink attributes
// become shadow attributes and src is resolved.
func ImageRule(dir rules.Direction, opts ...ImageOption) rules.RuleConfig {
	cfg := imageConfig{resolver: PlaceholderResolver}
	for _, opt := range opts {
		opt(&cfg)
	}

	toData := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, "img") {
			return n
		}
		t := ctx.Out
		fromShadow(t, n)
		if !t.HasAttr(n, dom.Local("alt")) {
			t.SetAttr(n, dom.Local("alt"), "")
		}
		t.RemoveAttr(n, dom.Local("src"))
		t.RemoveAttr(n, dom.Local("title"))
		if !t.HasAttr(n, dialect.XLink("href")) {
			ctx.Lose(rules.LossL3, "img", "image without xlink:href removed")
			return ctx.Fragment()
		}
		return n
	}

	toView := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, "img") {
			return n
		}
		t := ctx.Out
		href, _ := t.Attr(n, dialect.XLink("href"))
		toShadow(t, n)

		var ref *contentref.Ref
		if parsed, err := contentref.Parse(href); err == nil {
			ref = parsed
		}
		t.SetAttr(n, dom.Local("src"), cfg.resolver.ResolveSource(href, ref))
		return n
	}

	return rules.MustResolve(dir,
		importedSection(shapes("img"), toData),
		importedSection(shapes("img"), toView),
		rules.Defaults{ID: "image"},
	)
}

// fromShadow turns data-xlink-* attributes into xlink attributes.
func fromShadow(t *dom.Tree, n dom.NodeID) {
	for _, local := range dialect.XLinkAttrs {
		if v, ok := t.RemoveAttr(n, dialect.Shadow(local)); ok {
			t.SetAttr(n, dialect.XLink(local), v)
		}
	}
}

// toShadow turns xlink attributes into data-xlink-* attributes.
func toShadow(t *dom.Tree, n dom.NodeID) {
	for _, local := range dialect.XLinkAttrs {
		if v, ok := t.RemoveAttr(n, dialect.XLink(local)); ok {
			t.SetAttr(n, dialect.Shadow(local), v)
		}
	}
}
