package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// FixedAttr is an attribute whose value is fixed by the data dialect DTD
// for one element. Writing it out is redundant.
type FixedAttr struct {
	Element string
	Attr    dom.Name
	Value   string
}

// FixedAttrs are the attributes removed by FixedAttributesRule.
var FixedAttrs = []FixedAttr{
	{Element: "pre", Attr: dialect.XML("space"), Value: "preserve"},
	{Element: "a", Attr: dialect.XLink("type"), Value: "simple"},
	{Element: "img", Attr: dialect.XLink("type"), Value: "simple"},
	{Element: "img", Attr: dialect.XLink("show"), Value: "embed"},
	{Element: "img", Attr: dialect.XLink("actuate"), Value: "onLoad"},
}

// FixedAttributesRule removes the attributes listed in fixed, or FixedAttrs
// when none are given, on the way to data. An attribute is only removed when
// it carries exactly its fixed value. The rule runs at low priority, after
// the rules producing link namespace attributes.
func FixedAttributesRule(fixed ...FixedAttr) rules.RuleConfig {
	if len(fixed) == 0 {
		fixed = FixedAttrs
	}
	byElement := make(map[string][]FixedAttr)
	var locals []string
	for _, f := range fixed {
		if _, ok := byElement[f.Element]; !ok {
			locals = append(locals, f.Element)
		}
		byElement[f.Element] = append(byElement[f.Element], f)
	}

	strip := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		t := ctx.Out
		if !t.IsElement(n) {
			return n
		}
		local := t.LocalName(n)
		if !isTarget(ctx, n, local) {
			return n
		}
		removeFixed(t, n, byElement[local])
		return n
	}

	return rules.MustResolve(rules.ToData,
		importedSection(shapes(locals...), strip),
		nil,
		rules.Defaults{ID: "fixed-attributes", Priority: rules.PriorityLow},
	)
}

// StripFixedAttrs removes the attributes listed in fixed, or FixedAttrs when
// none are given, from id and all elements below it. Element names are
// matched by local name only.
func StripFixedAttrs(t *dom.Tree, id dom.NodeID, fixed ...FixedAttr) {
	if len(fixed) == 0 {
		fixed = FixedAttrs
	}
	if t.IsElement(id) {
		removeFixed(t, id, fixed)
	}
	for _, c := range t.Children(id) {
		StripFixedAttrs(t, c, fixed...)
	}
}

func removeFixed(t *dom.Tree, n dom.NodeID, fixed []FixedAttr) {
	local := t.LocalName(n)
	for _, f := range fixed {
		if f.Element != local {
			continue
		}
		if v, ok := t.Attr(n, f.Attr); ok && v == f.Value {
			t.RemoveAttr(n, f.Attr)
		}
	}
}
