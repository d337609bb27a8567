// Package convert implements the tree conversion engine the rules are
// written against.
//
// The engine walks the source tree once, depth first, and builds a new
// output tree. For every element it runs, in order:
//
//  1. the prepare hooks of all applicable rules against the source node;
//  2. the conversion of the node's children, recursively;
//  3. the imported hooks against the copied, still childless node;
//  4. the attachment of the converted children to the replacement;
//  5. the importedWithChildren hooks.
//
// Within a phase hooks run by descending priority, ties in rule-list order.
// Hooks are looked up in a table keyed by direction, phase and element
// shape that is built once in New. When a hook renames a node the remaining
// hooks of the phase are taken from the new shape's list, so the outcome is
// the same as offering the node to every rule in turn.
package convert

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
	"github.com/FocuswithJustin/richtext/core/rules"
)

type hook struct {
	rule    string
	seq     int
	section *rules.Section
}

type hookTable [rules.NumPhases][dialect.NumShapes][]hook

// Engine converts trees in both directions with a fixed rule list. It is
// immutable after New and safe for concurrent use.
type Engine struct {
	rules  []rules.RuleConfig
	tables [2]hookTable
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New validates rs and builds the dispatch tables. Any configuration error
// surfaces here.
func New(rs []rules.RuleConfig, opts ...Option) (*Engine, error) {
	e := &Engine{
		rules:  append([]rules.RuleConfig(nil), rs...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	seen := make(map[string]bool, len(rs))
	for _, r := range e.rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, errors.NewConfig(r.ID, "duplicate rule id")
		}
		seen[r.ID] = true
	}

	for i, dir := range []rules.Direction{rules.ToData, rules.ToView} {
		e.tables[i] = buildTable(e.rules, dir)
	}

	e.logger.Debug("conversion engine ready", "rules", len(e.rules))
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew(rs []rules.RuleConfig, opts ...Option) *Engine {
	e, err := New(rs, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func buildTable(rs []rules.RuleConfig, dir rules.Direction) hookTable {
	type entry struct {
		order    int
		priority rules.Priority
		rule     rules.RuleConfig
	}
	var entries []entry
	for i, r := range rs {
		if r.Section(dir) != nil {
			entries = append(entries, entry{order: i, priority: r.Priority, rule: r})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority.Compare(entries[j].priority) > 0
	})

	var t hookTable
	for seq, en := range entries {
		s := en.rule.Section(dir)
		shapes := uniqueShapes(s.Shapes)
		for p := rules.PhasePrepare; p < rules.NumPhases; p++ {
			if !s.Has(p) {
				continue
			}
			h := hook{rule: en.rule.ID, seq: seq, section: s}
			if len(shapes) == 0 {
				for shape := range t[p] {
					t[p][shape] = append(t[p][shape], h)
				}
				continue
			}
			for _, shape := range shapes {
				t[p][shape] = append(t[p][shape], h)
			}
		}
	}
	return t
}

func uniqueShapes(shapes []dialect.Shape) []dialect.Shape {
	var out []dialect.Shape
	seen := make(map[dialect.Shape]bool, len(shapes))
	for _, s := range shapes {
		if s < dialect.NumShapes && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func tableIndex(dir rules.Direction) (int, bool) {
	switch dir {
	case rules.ToData:
		return 0, true
	case rules.ToView:
		return 1, true
	}
	return 0, false
}

// Rules returns a copy of the rule list in declaration order.
func (e *Engine) Rules() []rules.RuleConfig {
	return append([]rules.RuleConfig(nil), e.rules...)
}

// Hooks returns the IDs of the rules whose hooks run for shape in phase,
// in execution order.
func (e *Engine) Hooks(dir rules.Direction, phase rules.Phase, shape dialect.Shape) []string {
	i, ok := tableIndex(dir)
	if !ok || phase >= rules.NumPhases || shape >= dialect.NumShapes {
		return nil
	}
	var ids []string
	for _, h := range e.tables[i][phase][shape] {
		ids = append(ids, h.rule)
	}
	return ids
}

// ToData converts a view tree to a data tree.
func (e *Engine) ToData(src *dom.Tree) (*dom.Tree, *rules.LossReport) {
	return e.run(rules.ToData, src)
}

// ToView converts a data tree to a view tree.
func (e *Engine) ToView(src *dom.Tree) (*dom.Tree, *rules.LossReport) {
	return e.run(rules.ToView, src)
}

// Convert converts src in direction dir, which must be ToData or ToView.
func (e *Engine) Convert(dir rules.Direction, src *dom.Tree) (*dom.Tree, *rules.LossReport, error) {
	if _, ok := tableIndex(dir); !ok {
		return nil, nil, errors.NewUnsupported("direction", fmt.Sprintf("%s is not a conversion target", dir))
	}
	out, report := e.run(dir, src)
	return out, report, nil
}

func (e *Engine) run(dir rules.Direction, src *dom.Tree) (*dom.Tree, *rules.LossReport) {
	start := time.Now()
	i, _ := tableIndex(dir)
	c := &conversion{
		ctx:    rules.NewContext(dir, src, e.logger),
		table:  &e.tables[i],
		target: dialect.DefaultNamespace(dir == rules.ToData),
		source: dialect.DefaultNamespace(dir != rules.ToData),
	}
	out := c.ctx.Out
	c.convertChildren(src.Root(), out.Root())

	e.logger.Debug("conversion finished",
		"direction", dir.String(),
		"source_nodes", src.Len(),
		"output_nodes", out.Len(),
		"loss_class", string(c.ctx.Report.LossClass),
		"duration_us", time.Since(start).Microseconds(),
	)
	return out, c.ctx.Report
}

// conversion holds the state of one run.
type conversion struct {
	ctx    *rules.Context
	table  *hookTable
	target string
	source string
}

func (c *conversion) convertChildren(srcParent, outParent dom.NodeID) {
	src := c.ctx.Src
	counts := make(map[string]int)
	for _, child := range src.Children(srcParent) {
		if !src.IsElement(child) {
			c.attach(outParent, c.convertNode(child))
			continue
		}
		local := src.LocalName(child)
		counts[local]++
		c.ctx.Enter(local + "[" + strconv.Itoa(counts[local]) + "]")
		c.attach(outParent, c.convertNode(child))
		c.ctx.Leave()
	}
}

func (c *conversion) convertNode(id dom.NodeID) dom.NodeID {
	src, out := c.ctx.Src, c.ctx.Out

	switch src.Kind(id) {
	case dom.TextNode:
		return out.CreateText(src.Text(id))
	case dom.FragmentNode, dom.DocumentNode:
		frag := out.CreateFragment()
		c.convertChildren(id, frag)
		return frag
	}

	for _, h := range c.table[rules.PhasePrepare][dialect.Classify(src.Name(id))] {
		h.section.Prepare(c.ctx, id)
	}

	node := out.CreateElement(c.targetName(src.Name(id)), src.Attrs(id)...)
	children := out.CreateFragment()
	c.convertChildren(id, children)

	node = c.runImport(rules.PhaseImported, node)

	switch {
	case out.IsElement(node) || out.IsFragment(node):
		out.MoveChildren(children, node)
	case out.Valid(node):
		wrapper := out.CreateFragment()
		out.AppendChild(wrapper, node)
		out.MoveChildren(children, wrapper)
		node = wrapper
	default:
		node = children
	}

	return c.runImport(rules.PhaseImportedWithChildren, node)
}

// runImport offers node to the hooks of phase in sequence. After a hook
// changes the node's shape, the remaining hooks come from the new shape's
// list, starting after the hook that ran last.
func (c *conversion) runImport(phase rules.Phase, node dom.NodeID) dom.NodeID {
	out := c.ctx.Out
	lastSeq := -1
	for out.IsElement(node) {
		next, ok := c.nextHook(phase, dialect.Classify(out.Name(node)), lastSeq)
		if !ok {
			break
		}
		lastSeq = next.seq

		var result dom.NodeID
		if phase == rules.PhaseImported {
			result = next.section.Imported(c.ctx, node)
		} else {
			result = next.section.ImportedWithChildren(c.ctx, node)
		}
		node = c.replace(node, result)
	}
	return node
}

func (c *conversion) nextHook(phase rules.Phase, shape dialect.Shape, after int) (hook, bool) {
	list := c.table[phase][shape]
	i := sort.Search(len(list), func(i int) bool { return list[i].seq > after })
	if i == len(list) {
		return hook{}, false
	}
	return list[i], true
}

// replace settles the result of a hook. A Nil result is read as an empty
// fragment. Replacing a node that has children with an empty fragment keeps
// the children.
func (c *conversion) replace(node, result dom.NodeID) dom.NodeID {
	out := c.ctx.Out
	if result == node {
		return node
	}
	if !out.Valid(result) {
		result = out.CreateFragment()
	}
	if out.IsFragment(result) && out.ChildCount(result) == 0 {
		out.MoveChildren(node, result)
	}
	return result
}

func (c *conversion) attach(parent, child dom.NodeID) {
	out := c.ctx.Out
	if out.IsFragment(child) {
		out.MoveChildren(child, parent)
		return
	}
	out.AppendChild(parent, child)
}

func (c *conversion) targetName(name dom.Name) dom.Name {
	if name.Space == c.source || name.Space == "" {
		name.Space = c.target
	}
	return name
}
