package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// UnwrapRule removes elements named local in the target dialect, splicing
// their content into the parent. The wrapper and its attributes are lost,
// so dir is normally a single direction.
func UnwrapRule(id string, dir rules.Direction, local string) rules.RuleConfig {
	unwrap := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, local) {
			return n
		}
		ctx.Lose(rules.LossL2, local, "wrapper removed")
		return ctx.Fragment()
	}
	build := importedSection(shapes(local), unwrap)
	return rules.MustResolve(dir, build, build, rules.Defaults{ID: id})
}
