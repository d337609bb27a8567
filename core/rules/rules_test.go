package rules

import (
	"testing"

	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
)

func identity(_ *Context, n dom.NodeID) dom.NodeID { return n }

func importSection() *Section {
	return &Section{Imported: identity}
}

// TestResolveDirectionToConfig verifies builders run only for included
// directions.
func TestResolveDirectionToConfig(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		wantData  bool
		wantView  bool
	}{
		{"toData", ToData, true, false},
		{"toView", ToView, false, true},
		{"bijective", Bijective, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dataCalls, viewCalls int
			cfg, err := ResolveDirectionToConfig(tt.direction,
				func() *Section { dataCalls++; return importSection() },
				func() *Section { viewCalls++; return importSection() },
				Defaults{ID: "test", Priority: PriorityHigh})
			if err != nil {
				t.Fatalf("ResolveDirectionToConfig failed: %v", err)
			}
			if (cfg.ToData != nil) != tt.wantData {
				t.Errorf("ToData present = %v, want %v", cfg.ToData != nil, tt.wantData)
			}
			if (cfg.ToView != nil) != tt.wantView {
				t.Errorf("ToView present = %v, want %v", cfg.ToView != nil, tt.wantView)
			}
			if dataCalls > 1 || viewCalls > 1 {
				t.Errorf("builders invoked %d/%d times", dataCalls, viewCalls)
			}
			if tt.wantData != (dataCalls == 1) {
				t.Errorf("toData builder calls = %d", dataCalls)
			}
			if tt.wantView != (viewCalls == 1) {
				t.Errorf("toView builder calls = %d", viewCalls)
			}
			if cfg.ID != "test" || cfg.Priority != PriorityHigh {
				t.Errorf("defaults not applied: %+v", cfg)
			}
			if cfg.Directions() != tt.direction {
				t.Errorf("Directions() = %v, want %v", cfg.Directions(), tt.direction)
			}
		})
	}
}

// TestResolveWithoutSection verifies an unresolvable rule is a
// configuration error.
func TestResolveWithoutSection(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		toData    SectionBuilder
		toView    SectionBuilder
	}{
		{"toData without builder", ToData, nil, importSection},
		{"nil sections", Bijective, func() *Section { return nil }, func() *Section { return nil }},
		{"hookless section", ToView, importSection, func() *Section { return &Section{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveDirectionToConfig(tt.direction, tt.toData, tt.toView, Defaults{ID: "broken"})
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, errors.ErrConfig) {
				t.Errorf("error %v does not wrap ErrConfig", err)
			}
		})
	}
}

// TestMustResolvePanics verifies MustResolve fails immediately.
func TestMustResolvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResolve should panic")
		}
	}()
	MustResolve(ToData, nil, nil, Defaults{ID: "empty"})
}

// TestValidate verifies RuleConfig invariants.
func TestValidate(t *testing.T) {
	if err := (RuleConfig{ToData: importSection()}).Validate(); err == nil {
		t.Error("rule without id should fail")
	}
	if err := (RuleConfig{ID: "x"}).Validate(); err == nil {
		t.Error("rule without sections should fail")
	}
	if err := (RuleConfig{ID: "x", ToView: importSection()}).Validate(); err != nil {
		t.Errorf("valid rule failed: %v", err)
	}
}

// TestSectionHas verifies phase lookup.
func TestSectionHas(t *testing.T) {
	s := &Section{Prepare: func(*Context, dom.NodeID) {}, ImportedWithChildren: identity}
	if !s.Has(PhasePrepare) || s.Has(PhaseImported) || !s.Has(PhaseImportedWithChildren) {
		t.Errorf("Has mismatch for %+v", s)
	}
	var nilSection *Section
	if nilSection.Has(PhasePrepare) || !nilSection.Empty() {
		t.Error("nil section should be empty")
	}
}

// TestParseDirection verifies accepted spellings.
func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"toData", ToData},
		{"to-view", ToView},
		{"BIJECTIVE", Bijective},
		{"data", ToData},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("ParseDirection(sideways) error = %v", err)
	}
}

// TestDirectionIncludes verifies bijective expansion.
func TestDirectionIncludes(t *testing.T) {
	if !Bijective.Includes(ToData) || !Bijective.Includes(ToView) {
		t.Error("bijective must include both directions")
	}
	if ToData.Includes(ToView) || ToData.Includes(Bijective) {
		t.Error("toData must not include toView")
	}
	if ToData.Includes(0) {
		t.Error("no direction includes the zero direction")
	}
}
