package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// Option configures DefaultRules.
type Option func(*options)

type options struct {
	image []ImageOption
}

// WithImageResolver sets the resolver for view image sources.
func WithImageResolver(r SourceResolver) Option {
	return func(o *options) {
		o.image = append(o.image, WithSourceResolver(r))
	}
}

// DefaultRules returns the rule set converting between the CoreMedia
// RichText 1.0 data dialect and the editor view.
func DefaultRules(opts ...Option) []rules.RuleConfig {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return []rules.RuleConfig{
		TableRule(rules.Bijective),
		HeadingRule(rules.Bijective),

		ElementRule("bold", rules.ToData, "b", "strong"),
		ElementRule("italic", rules.Bijective, "i", "em"),
		ElementClassRule("underline", rules.Bijective, "u", "span", dialect.ClassUnderline),
		ElementClassRule("strikethrough", rules.Bijective, "s", "span", dialect.ClassStrike),
		ElementClassRule("strikethrough-del", rules.ToData, "del", "span", dialect.ClassStrike),
		ElementClassRule("strikethrough-strike", rules.ToData, "strike", "span", dialect.ClassStrike),
		ElementClassRule("code", rules.Bijective, "code", "span", dialect.ClassCode),
		ElementClassRule("div", rules.Bijective, "div", "p", dialect.ClassDiv),
		ElementClassRule("table-header-cell", rules.Bijective, "th", "td", dialect.ClassHeaderCell),

		AnchorRule(rules.Bijective),
		ImageRule(rules.Bijective, o.image...),
		UnwrapRule("figure", rules.ToData, "figure"),
		FixedAttributesRule(),
	}
}
