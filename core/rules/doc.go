// Package rules defines the declarative rule model the converter is driven
// by.
//
// A RuleConfig carries up to two Sections: one applied when converting view
// markup to data (ToData) and one applied when converting data to view
// (ToView). A Section contributes hooks to three phases of the per-node
// conversion:
//
//   - Prepare runs pre-order against the source tree, before the node's
//     children are visited, and may restructure the source.
//   - Imported runs against the copied node before its converted children
//     are attached and returns the node's replacement.
//   - ImportedWithChildren runs after the children are attached and returns
//     the node's replacement.
//
// Returning an empty fragment from an import hook deletes the node and
// splices its children into the parent at the node's position. A hook that
// does not recognize a node returns it unchanged.
//
// Most rule families are written once, with the Direction as parameter, and
// expanded into a RuleConfig by ResolveDirectionToConfig:
//
//	rule := rules.MustResolve(rules.Bijective,
//	    func() *rules.Section { return &rules.Section{Imported: toData} },
//	    func() *rules.Section { return &rules.Section{Imported: toView} },
//	    rules.Defaults{ID: "italic"})
package rules
