package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// TableRule converts between the view table, which may have head, body and
// foot sections, and the data table with a single body section.
//
// Towards data all rows are merged into one new tbody: head rows first,
// tagged tr--header, then the rows of every body section in order, then
// foot rows, tagged tr--footer. Section attributes are copied onto the new
// body, later sections overwriting earlier ones.
//
// Towards the view the rows are split back by their markers. The
// attributes of the original body are copied onto all of thead, tbody and
// tfoot, and sections left without rows are removed. Children of the body
// other than rows stay in the tbody.
//
// The new sections take the place of the first original section, so
// surrounding whitespace keeps its position.
//
// Both hooks run in the prepare phase, restructuring the source table
// before any of its descendants is converted.
func TableRule(dir rules.Direction) rules.RuleConfig {
	return rules.MustResolve(dir,
		prepareSection(shapes("table"), mergeSections),
		prepareSection(shapes("table"), splitSections),
		rules.Defaults{ID: "table", Priority: rules.PriorityHigh},
	)
}

func mergeSections(ctx *rules.Context, table dom.NodeID) {
	if !isSource(ctx, table, "table") {
		return
	}
	t := ctx.Src

	var heads, bodies, feet []dom.NodeID
	first := -1
	for i, c := range t.Children(table) {
		switch {
		case isSource(ctx, c, "thead"):
			heads = append(heads, c)
		case isSource(ctx, c, "tbody"), isSource(ctx, c, "tr"):
			bodies = append(bodies, c)
		case isSource(ctx, c, "tfoot"):
			feet = append(feet, c)
		default:
			continue
		}
		if first < 0 {
			first = i
		}
	}
	if first < 0 {
		return
	}

	body := sourceChild(ctx, table, "tbody")
	t.InsertAt(table, first, body)

	withAttrs := 0
	merge := func(section dom.NodeID, marker string) {
		if isSource(ctx, section, "tr") {
			t.AppendChild(body, section)
			return
		}
		if len(t.Attrs(section)) > 0 {
			withAttrs++
		}
		t.CopyAttrs(section, body)
		if marker != "" {
			for _, row := range t.Elements(section, "tr") {
				t.AddClass(row, marker)
			}
		}
		t.MoveChildren(section, body)
		t.Detach(section)
	}

	for _, s := range heads {
		merge(s, dialect.ClassHeaderRow)
	}
	for _, s := range bodies {
		merge(s, "")
	}
	for _, s := range feet {
		merge(s, dialect.ClassFooterRow)
	}

	if withAttrs > 1 {
		ctx.Lose(rules.LossL2, "tbody", "attributes of several table sections merged into one body")
	}
}

func splitSections(ctx *rules.Context, table dom.NodeID) {
	if !isSource(ctx, table, "table") {
		return
	}
	t := ctx.Src

	// items holds the rows in document order together with the other
	// children of the body sections, which stay with the body.
	var items, bodies []dom.NodeID
	first := -1
	for i, c := range t.Children(table) {
		switch {
		case isSource(ctx, c, "tbody"):
			bodies = append(bodies, c)
			items = append(items, t.Children(c)...)
		case isSource(ctx, c, "tr"):
			items = append(items, c)
		default:
			continue
		}
		if first < 0 {
			first = i
		}
	}
	if first < 0 {
		return
	}

	head := sourceChild(ctx, table, "thead")
	body := sourceChild(ctx, table, "tbody")
	foot := sourceChild(ctx, table, "tfoot")
	t.InsertAt(table, first, head, body, foot)

	for _, item := range items {
		if !isSource(ctx, item, "tr") {
			t.AppendChild(body, item)
			continue
		}
		switch {
		case t.RemoveClass(item, dialect.ClassHeaderRow):
			t.RemoveClass(item, dialect.ClassFooterRow)
			t.AppendChild(head, item)
		case t.RemoveClass(item, dialect.ClassFooterRow):
			t.AppendChild(foot, item)
		default:
			t.AppendChild(body, item)
		}
	}

	withAttrs := 0
	for _, b := range bodies {
		if len(t.Attrs(b)) > 0 {
			withAttrs++
		}
		for _, section := range []dom.NodeID{head, body, foot} {
			t.CopyAttrs(b, section)
		}
		t.Detach(b)
	}
	if withAttrs > 1 {
		ctx.Lose(rules.LossL2, "tbody", "attributes of several body sections collapsed")
	}

	// A section without rows is dropped; anything else it holds moves up
	// into the table in its place.
	for _, section := range []dom.NodeID{head, body, foot} {
		if len(t.Elements(section, "tr")) == 0 {
			t.InsertAt(table, t.IndexOf(table, section), t.Children(section)...)
			t.Detach(section)
		}
	}
}
