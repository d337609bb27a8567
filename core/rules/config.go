package rules

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
)

// Direction selects which conversion a rule section applies to.
type Direction uint8

const (
	// ToData converts view markup to data markup.
	ToData Direction = 1 << iota
	// ToView converts data markup to view markup.
	ToView

	// Bijective expands to both ToData and ToView.
	Bijective = ToData | ToView
)

// Includes reports whether d contains every direction of o.
func (d Direction) Includes(o Direction) bool {
	return o != 0 && d&o == o
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case ToData:
		return "toData"
	case ToView:
		return "toView"
	case Bijective:
		return "bijective"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection parses "toData", "toView" or "bijective" (case and dash
// insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "todata", "data":
		return ToData, nil
	case "toview", "view":
		return ToView, nil
	case "bijective", "both":
		return Bijective, nil
	}
	return 0, errors.NewUnsupported("direction", fmt.Sprintf("%q", s))
}

// Phase is a stage of the per-node conversion.
type Phase uint8

const (
	PhasePrepare Phase = iota
	PhaseImported
	PhaseImportedWithChildren

	// NumPhases is the number of phases, for table sizing.
	NumPhases
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePrepare:
		return "prepare"
	case PhaseImported:
		return "imported"
	case PhaseImportedWithChildren:
		return "importedWithChildren"
	default:
		return "unknown"
	}
}

// PrepareFunc is invoked on a source element before its children are
// converted. It may restructure the source tree below the node.
type PrepareFunc func(ctx *Context, node dom.NodeID)

// ImportFunc is invoked on an element copied to the output tree and returns
// its replacement.
type ImportFunc func(ctx *Context, node dom.NodeID) dom.NodeID

// Section is the part of a rule bound to one direction.
type Section struct {
	// Shapes restricts the section to elements of the given shapes. An
	// empty set matches every element.
	Shapes []dialect.Shape

	Prepare              PrepareFunc
	Imported             ImportFunc
	ImportedWithChildren ImportFunc
}

// Empty reports whether the section carries no hook.
func (s *Section) Empty() bool {
	return s == nil || (s.Prepare == nil && s.Imported == nil && s.ImportedWithChildren == nil)
}

// Has reports whether the section carries a hook for phase p.
func (s *Section) Has(p Phase) bool {
	if s == nil {
		return false
	}
	switch p {
	case PhasePrepare:
		return s.Prepare != nil
	case PhaseImported:
		return s.Imported != nil
	case PhaseImportedWithChildren:
		return s.ImportedWithChildren != nil
	}
	return false
}

// RuleConfig is one transformation unit.
type RuleConfig struct {
	ID       string
	ToData   *Section
	ToView   *Section
	Priority Priority
}

// Section returns the section bound to dir, which must be ToData or ToView.
func (r RuleConfig) Section(dir Direction) *Section {
	switch dir {
	case ToData:
		return r.ToData
	case ToView:
		return r.ToView
	}
	return nil
}

// Directions returns the directions the rule has a section for.
func (r RuleConfig) Directions() Direction {
	var d Direction
	if !r.ToData.Empty() {
		d |= ToData
	}
	if !r.ToView.Empty() {
		d |= ToView
	}
	return d
}

// Validate checks the configuration invariants: a non-empty ID and at
// least one section carrying a hook.
func (r RuleConfig) Validate() error {
	if r.ID == "" {
		return errors.NewConfig("", "rule without id")
	}
	if r.Directions() == 0 {
		return errors.NewConfig(r.ID, "neither a toData nor a toView section")
	}
	return nil
}

// Defaults holds the values copied into a resolved RuleConfig.
type Defaults struct {
	ID       string
	Priority Priority
}

// SectionBuilder builds the section for one direction.
type SectionBuilder func() *Section

// ResolveDirectionToConfig builds a RuleConfig for direction. buildToData is
// only invoked when direction includes ToData, buildToView only when it
// includes ToView; either may be nil. Resolving to no section at all is a
// configuration error.
func ResolveDirectionToConfig(direction Direction, buildToData, buildToView SectionBuilder, defaults Defaults) (RuleConfig, error) {
	cfg := RuleConfig{
		ID:       defaults.ID,
		Priority: defaults.Priority,
	}
	if direction.Includes(ToData) && buildToData != nil {
		cfg.ToData = buildToData()
	}
	if direction.Includes(ToView) && buildToView != nil {
		cfg.ToView = buildToView()
	}
	if cfg.ToData.Empty() {
		cfg.ToData = nil
	}
	if cfg.ToView.Empty() {
		cfg.ToView = nil
	}
	if err := cfg.Validate(); err != nil {
		return RuleConfig{}, errors.Wrapf(err, "resolving %s rule", direction)
	}
	return cfg, nil
}

// MustResolve is like ResolveDirectionToConfig but panics on error. It is
// meant for rule tables built at init time.
func MustResolve(direction Direction, buildToData, buildToView SectionBuilder, defaults Defaults) RuleConfig {
	cfg, err := ResolveDirectionToConfig(direction, buildToData, buildToView, defaults)
	if err != nil {
		panic(err)
	}
	return cfg
}
