package selfcheck

import (
	"github.com/FocuswithJustin/richtext/core/rules"
)

// LossBudget defines acceptable loss thresholds for a round trip.
type LossBudget struct {
	// MaxLossClass is the maximum acceptable loss class (e.g., L1 means L0 and L1 are ok).
	MaxLossClass rules.LossClass `json:"max_loss_class"`

	// MaxLostElements is the maximum number of lost elements allowed (0 = any).
	MaxLostElements int `json:"max_lost_elements,omitempty"`

	// ExemptElementTypes lists element types whose loss is not counted
	// against MaxLostElements.
	ExemptElementTypes []string `json:"exempt_element_types,omitempty"`
}

// NewLossBudget creates a budget allowing up to the specified loss class.
func NewLossBudget(maxClass rules.LossClass) *LossBudget {
	return &LossBudget{
		MaxLossClass: maxClass,
	}
}

// LosslessOnly creates a budget that only allows L0 (lossless) conversions.
func LosslessOnly() *LossBudget {
	return NewLossBudget(rules.LossL0)
}

// SemanticallyLossless creates a budget allowing L0-L1: legacy aliases are
// normalized but nothing is dropped.
func SemanticallyLossless() *LossBudget {
	return NewLossBudget(rules.LossL1)
}

// IsWithinBudget checks if a loss report is within the budget constraints.
func (b *LossBudget) IsWithinBudget(report *rules.LossReport) bool {
	return b.Check(report).WithinBudget
}

func (b *LossBudget) countLostElements(report *rules.LossReport) int {
	exempt := make(map[string]bool, len(b.ExemptElementTypes))
	for _, t := range b.ExemptElementTypes {
		exempt[t] = true
	}

	count := 0
	for _, elem := range report.LostElements {
		if !exempt[elem.ElementType] {
			count++
		}
	}
	return count
}

// LossBudgetResult describes the result of checking a loss report against a budget.
type LossBudgetResult struct {
	// WithinBudget is true if the report is within the budget.
	WithinBudget bool `json:"within_budget"`

	// ActualLossClass is the loss class from the report.
	ActualLossClass rules.LossClass `json:"actual_loss_class"`

	// MaxAllowedClass is the maximum allowed from the budget.
	MaxAllowedClass rules.LossClass `json:"max_allowed_class"`

	// LostElementCount is the number of counted lost elements.
	LostElementCount int `json:"lost_element_count"`

	// Violations lists specific violations.
	Violations []string `json:"violations,omitempty"`
}

// Check performs a detailed check and returns a result.
func (b *LossBudget) Check(report *rules.LossReport) *LossBudgetResult {
	result := &LossBudgetResult{
		MaxAllowedClass: b.MaxLossClass,
		WithinBudget:    true,
	}

	if report == nil {
		result.ActualLossClass = rules.LossL0
		return result
	}

	result.ActualLossClass = report.LossClass
	result.LostElementCount = b.countLostElements(report)

	if report.LossClass.Level() > b.MaxLossClass.Level() {
		result.WithinBudget = false
		result.Violations = append(result.Violations,
			"loss class "+string(report.LossClass)+" exceeds budget "+string(b.MaxLossClass))
	}

	if b.MaxLostElements > 0 && result.LostElementCount > b.MaxLostElements {
		result.WithinBudget = false
		result.Violations = append(result.Violations,
			"lost element count exceeds budget")
	}

	return result
}

// mergeReports combines the reports of the legs of a round trip. The
// result carries the highest loss class and every lost element.
func mergeReports(reports ...*rules.LossReport) *rules.LossReport {
	merged := rules.NewLossReport(rules.Bijective)
	for _, r := range reports {
		if r == nil {
			continue
		}
		for _, e := range r.LostElements {
			merged.AddLostElement(e.Class, e.Path, e.ElementType, e.Reason)
		}
		if r.LossClass.Level() > merged.LossClass.Level() {
			merged.LossClass = r.LossClass
		}
		merged.Warnings = append(merged.Warnings, r.Warnings...)
	}
	return merged
}
