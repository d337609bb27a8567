package rules

// LossClass represents the fidelity level of a conversion.
type LossClass string

// Loss class constants, from most to least fidelity.
const (
	// LossL0 indicates a lossless conversion.
	LossL0 LossClass = "L0"

	// LossL1 indicates a semantically lossless conversion: a legacy alias was
	// normalized and cannot be reproduced, the content means the same.
	LossL1 LossClass = "L1"

	// LossL2 indicates minor loss: wrappers or attributes were dropped.
	LossL2 LossClass = "L2"

	// LossL3 indicates content loss: elements were removed.
	LossL3 LossClass = "L3"
)

// Level returns the numeric level (0-3) of the loss class.
func (l LossClass) Level() int {
	switch l {
	case LossL0, "":
		return 0
	case LossL1:
		return 1
	case LossL2:
		return 2
	case LossL3:
		return 3
	default:
		return -1
	}
}

// IsValid returns true if the loss class is valid.
func (l LossClass) IsValid() bool {
	return l.Level() >= 0 && l != ""
}

// IsLossless returns true if this loss class indicates no data loss.
func (l LossClass) IsLossless() bool {
	return l.Level() == 0
}

// LostElement describes a piece of markup lost during conversion.
type LostElement struct {
	// Path is the location in the source (e.g., "/table[1]/tbody[2]").
	Path string `json:"path"`

	// ElementType describes what was lost (e.g., "figure", "tbody@class").
	ElementType string `json:"element_type"`

	// Reason explains why the element was lost.
	Reason string `json:"reason"`

	// Class is the loss class of this element.
	Class LossClass `json:"class"`
}

// LossReport documents the fidelity of one conversion.
type LossReport struct {
	// Direction is the conversion the report belongs to.
	Direction Direction `json:"-"`

	// LossClass is the overall fidelity classification.
	LossClass LossClass `json:"loss_class"`

	// LostElements lists specific pieces of markup that were lost.
	LostElements []LostElement `json:"lost_elements,omitempty"`

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string `json:"warnings,omitempty"`
}

// NewLossReport returns a lossless report for dir.
func NewLossReport(dir Direction) *LossReport {
	return &LossReport{Direction: dir, LossClass: LossL0}
}

// HasLoss returns true if any elements were lost.
func (r *LossReport) HasLoss() bool {
	return len(r.LostElements) > 0 || r.LossClass.Level() > 0
}

// AddLostElement records a lost element and raises the overall class to
// at least class.
func (r *LossReport) AddLostElement(class LossClass, path, elementType, reason string) {
	r.LostElements = append(r.LostElements, LostElement{
		Path:        path,
		ElementType: elementType,
		Reason:      reason,
		Class:       class,
	})
	if class.Level() > r.LossClass.Level() {
		r.LossClass = class
	}
}

// AddWarning adds a warning to the report.
func (r *LossReport) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}
