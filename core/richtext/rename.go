package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// ElementRule maps the view element view to the data element data. See
// ElementClassRule; it panics if dir covers no direction.
func ElementRule(id string, dir rules.Direction, view, data string) rules.RuleConfig {
	return ElementClassRule(id, dir, view, data, "")
}

// ElementClassRule maps the view element view to the data element data
// carrying the reserved class token class.
//
// Towards data the element is renamed and the token added. Towards the view
// only data elements carrying the token match; they are renamed and the
// token removed, dropping the class attribute once it is empty. A rule
// built for ToData only records an L1 loss for every element it renames,
// as the view name cannot be restored.
func ElementClassRule(id string, dir rules.Direction, view, data, class string) rules.RuleConfig {
	reversible := dir.Includes(rules.ToView)

	toData := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, view) {
			return n
		}
		ctx.Out.Rename(n, data)
		if class != "" {
			ctx.Out.AddClass(n, class)
		}
		if !reversible {
			ctx.Lose(rules.LossL1, view, "normalized to "+describe(data, class))
		}
		return n
	}

	toView := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, data) {
			return n
		}
		if class != "" && !ctx.Out.RemoveClass(n, class) {
			return n
		}
		ctx.Out.Rename(n, view)
		return n
	}

	return rules.MustResolve(dir,
		importedSection(shapes(view), toData),
		importedSection(shapes(data), toView),
		rules.Defaults{ID: id},
	)
}

func describe(local, class string) string {
	if class == "" {
		return local
	}
	return local + "." + class
}
