// Package selfcheck runs round-trip checks over documents: a document is
// converted to the other dialect and back, and the canonical serializations
// before and after are compared by their BLAKE3 fingerprints.
package selfcheck

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/richtext/core/dataprocessor"
	"github.com/FocuswithJustin/richtext/core/richtext"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// Version is the report format version.
const Version = "1.0.0"

// Status values for reports.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Check types.
const (
	// CheckDataRoundTrip converts data to view and back.
	CheckDataRoundTrip = "DATA_ROUNDTRIP"
	// CheckViewRoundTrip converts view to data, back to view and to data
	// again, comparing the two data documents.
	CheckViewRoundTrip = "VIEW_ROUNDTRIP"
)

// Dialects an Input can be in.
const (
	DialectData = "data"
	DialectView = "view"
)

// Input is one document to check.
type Input struct {
	Label   string `json:"label"`
	Dialect string `json:"dialect"`
	Content []byte `json:"-"`
}

// Report is the output of a self-check run.
type Report struct {
	ReportVersion string        `json:"report_version"`
	CreatedAt     string        `json:"created_at"`
	Results       []CheckResult `json:"results"`
	Status        string        `json:"status"`
}

// CheckResult is the result of a single check.
type CheckResult struct {
	CheckType string            `json:"check_type"`
	Label     string            `json:"label"`
	Pass      bool              `json:"pass"`
	Expected  *HashInfo         `json:"expected,omitempty"`
	Actual    *HashInfo         `json:"actual,omitempty"`
	LossClass rules.LossClass   `json:"loss_class"`
	Budget    *LossBudgetResult `json:"budget,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   []string          `json:"details,omitempty"`
}

// HashInfo contains hash information for comparison.
type HashInfo struct {
	BLAKE3 string `json:"blake3"`
}

// Fingerprint returns the hex BLAKE3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ToJSON serializes the report to JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Hash returns the BLAKE3 fingerprint of the report.
func (r *Report) Hash() string {
	data, _ := json.Marshal(r)
	return Fingerprint(data)
}

// Checker runs round-trip checks with a processor.
type Checker struct {
	processor *dataprocessor.Processor
	budget    *LossBudget
}

// NewChecker returns a checker. A nil budget disables the loss budget
// check.
func NewChecker(p *dataprocessor.Processor, budget *LossBudget) *Checker {
	return &Checker{processor: p, budget: budget}
}

// CheckData converts a data document to the view and back. It passes when
// the result serializes identically to the original.
func (c *Checker) CheckData(ctx context.Context, label string, data []byte) *CheckResult {
	result := &CheckResult{CheckType: CheckDataRoundTrip, Label: label}

	canonical, err := c.canonical(rules.ToView, data)
	if err != nil {
		return result.fail(err)
	}
	view, err := c.processor.ToView(ctx, data)
	if err != nil {
		return result.fail(err)
	}
	back, err := c.processor.ToData(ctx, view.Output)
	if err != nil {
		return result.fail(err)
	}

	return c.finish(result, canonical, back.Output, view.Report, back.Report)
}

// CheckView converts a view fragment to data, back to the view and to data
// again. It passes when both data documents are identical.
func (c *Checker) CheckView(ctx context.Context, label string, view []byte) *CheckResult {
	result := &CheckResult{CheckType: CheckViewRoundTrip, Label: label}

	first, err := c.processor.ToData(ctx, view)
	if err != nil {
		return result.fail(err)
	}
	mid, err := c.processor.ToView(ctx, first.Output)
	if err != nil {
		return result.fail(err)
	}
	second, err := c.processor.ToData(ctx, mid.Output)
	if err != nil {
		return result.fail(err)
	}

	return c.finish(result, first.Output, second.Output, first.Report, mid.Report, second.Report)
}

// Run checks every input and returns the report.
func (c *Checker) Run(ctx context.Context, inputs []Input) (*Report, error) {
	report := &Report{
		ReportVersion: Version,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Status:        StatusPass,
	}

	for _, in := range inputs {
		var result *CheckResult
		switch in.Dialect {
		case DialectData:
			result = c.CheckData(ctx, in.Label, in.Content)
		case DialectView:
			result = c.CheckView(ctx, in.Label, in.Content)
		default:
			return nil, fmt.Errorf("input %q: unknown dialect %q", in.Label, in.Dialect)
		}
		report.Results = append(report.Results, *result)
		if !result.Pass {
			report.Status = StatusFail
		}
	}
	return report, nil
}

// canonical reparses input and serializes it again without converting, so
// insignificant differences such as attribute quoting do not fail a check.
// Data attributes carrying their fixed DTD value are dropped, as conversion
// to data drops them.
func (c *Checker) canonical(dir rules.Direction, input []byte) ([]byte, error) {
	tree, err := dataprocessor.Parse(dir, input)
	if err != nil {
		return nil, err
	}
	target := rules.ToData
	if dir == rules.ToData {
		target = rules.ToView
	} else {
		richtext.StripFixedAttrs(tree, tree.Root())
	}
	return c.processor.Serialize(target, tree)
}

func (c *Checker) finish(result *CheckResult, expected, actual []byte, reports ...*rules.LossReport) *CheckResult {
	merged := mergeReports(reports...)
	result.Expected = &HashInfo{BLAKE3: Fingerprint(expected)}
	result.Actual = &HashInfo{BLAKE3: Fingerprint(actual)}
	result.LossClass = merged.LossClass
	result.Pass = result.Expected.BLAKE3 == result.Actual.BLAKE3

	for _, e := range merged.LostElements {
		result.Details = append(result.Details, fmt.Sprintf("%s %s: %s (%s)", e.Class, e.Path, e.Reason, e.ElementType))
	}
	if c.budget != nil {
		result.Budget = c.budget.Check(merged)
		if !result.Budget.WithinBudget {
			result.Pass = false
		}
	}
	return result
}

func (r *CheckResult) fail(err error) *CheckResult {
	r.Pass = false
	r.Error = err.Error()
	return r
}
