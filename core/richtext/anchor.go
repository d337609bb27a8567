package richtext

import (
	"strings"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// showTargets maps xlink:show values to the reserved view targets.
var showTargets = map[string]string{
	"new":     "_blank",
	"replace": "_self",
	"embed":   "_embed",
	"none":    "_none",
	"other":   "_other",
}

const roleTargetPrefix = "_role_"

// AnchorRule maps links between href/target/title in the view and the
// xlink attributes of the data dialect. A view anchor without href is
// removed, keeping its content.
func AnchorRule(dir rules.Direction) rules.RuleConfig {
	toData := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, "a") {
			return n
		}
		t := ctx.Out
		href, ok := t.RemoveAttr(n, dom.Local("href"))
		if !ok {
			ctx.Lose(rules.LossL2, "a", "anchor without href removed")
			return ctx.Fragment()
		}
		fromShadow(t, n)
		t.SetAttr(n, dialect.XLink("href"), href)
		if title, ok := t.RemoveAttr(n, dom.Local("title")); ok {
			t.SetAttr(n, dialect.XLink("title"), title)
		}
		if target, ok := t.RemoveAttr(n, dom.Local("target")); ok && target != "" {
			show, role := ParseTarget(target)
			if show != "" {
				t.SetAttr(n, dialect.XLink("show"), show)
			}
			if role != "" {
				t.SetAttr(n, dialect.XLink("role"), role)
			}
		}
		return n
	}

	toView := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, "a") {
			return n
		}
		t := ctx.Out
		if href, ok := t.RemoveAttr(n, dialect.XLink("href")); ok {
			t.SetAttr(n, dom.Local("href"), href)
		}
		if title, ok := t.RemoveAttr(n, dialect.XLink("title")); ok {
			t.SetAttr(n, dom.Local("title"), title)
		}
		if v, ok := t.Attr(n, dialect.XLink("type")); ok && v == "simple" {
			t.RemoveAttr(n, dialect.XLink("type"))
		}

		show, _ := t.Attr(n, dialect.XLink("show"))
		role, _ := t.Attr(n, dialect.XLink("role"))
		if target, ok := FormatTarget(show, role); ok {
			t.RemoveAttr(n, dialect.XLink("show"))
			t.RemoveAttr(n, dialect.XLink("role"))
			t.SetAttr(n, dom.Local("target"), target)
		}
		toShadow(t, n)
		return n
	}

	return rules.MustResolve(dir,
		importedSection(shapes("a"), toData),
		importedSection(shapes("a"), toView),
		rules.Defaults{ID: "anchor"},
	)
}

// FormatTarget encodes xlink:show and xlink:role as a view target. It
// reports false when neither is set or show is not a known value.
func FormatTarget(show, role string) (string, bool) {
	switch {
	case show == "" && role == "":
		return "", false
	case show == "":
		return roleTargetPrefix + role, true
	}
	target, ok := showTargets[show]
	if !ok {
		return "", false
	}
	switch {
	case role == "":
		return target, true
	case show == "other":
		return role, true
	default:
		return target + "_" + role, true
	}
}

// ParseTarget decodes a view target into xlink:show and xlink:role. It is
// the inverse of FormatTarget; targets without a reserved form, such as
// "_top" or a frame name, become show "other" with the target as role.
func ParseTarget(target string) (show, role string) {
	if r, ok := strings.CutPrefix(target, roleTargetPrefix); ok && r != "" {
		return "", r
	}
	for s, t := range showTargets {
		if target == t {
			return s, ""
		}
		if r, ok := strings.CutPrefix(target, t+"_"); ok && r != "" && s != "other" {
			return s, r
		}
	}
	return "other", target
}
