// Package richtext holds the rule families converting between the
// CoreMedia RichText 1.0 data dialect and the editor's HTML view dialect,
// and the default rule set composed from them.
//
// Every constructor takes the direction it should cover. A family defined
// once yields a bijective rule, or a rule limited to one direction for
// mappings that cannot be reversed, such as legacy view aliases.
//
// Rules are written against the convert engine: prepare hooks see the
// source tree, import hooks see the copied node in the output tree, where
// the element already lives in the target dialect's namespace. Hooks that
// do not recognize a node return it unchanged.
package richtext

import (
	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// isTarget reports whether n is an output element named local in the
// namespace of the dialect being produced.
func isTarget(ctx *rules.Context, n dom.NodeID, local string) bool {
	t := ctx.Out
	if !t.IsElement(n) {
		return false
	}
	name := t.Name(n)
	return name.Local == local && name.Space == dialect.DefaultNamespace(ctx.Direction == rules.ToData)
}

// isSource reports whether n is a source element named local in the
// namespace of the dialect being read. Unqualified names are accepted.
func isSource(ctx *rules.Context, n dom.NodeID, local string) bool {
	t := ctx.Src
	if !t.IsElement(n) {
		return false
	}
	name := t.Name(n)
	if name.Local != local {
		return false
	}
	return name.Space == "" || name.Space == dialect.DefaultNamespace(ctx.Direction != rules.ToData)
}

// sourceChild creates a detached source element in the namespace of
// parent.
func sourceChild(ctx *rules.Context, parent dom.NodeID, local string) dom.NodeID {
	return ctx.Src.CreateElement(dom.Name{Space: ctx.Src.Name(parent).Space, Local: local})
}

func shapes(locals ...string) []dialect.Shape {
	out := make([]dialect.Shape, len(locals))
	for i, l := range locals {
		out[i] = dialect.ShapeOf(l)
	}
	return out
}

func importedSection(s []dialect.Shape, fn rules.ImportFunc) rules.SectionBuilder {
	return func() *rules.Section {
		return &rules.Section{Shapes: s, Imported: fn}
	}
}

func prepareSection(s []dialect.Shape, fn rules.PrepareFunc) rules.SectionBuilder {
	return func() *rules.Section {
		return &rules.Section{Shapes: s, Prepare: fn}
	}
}
