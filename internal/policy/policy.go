// Package policy turns aggregate comparison scores into a pass/fail decision
// and a defect severity.
package policy

import "github.com/ironsheep/ui-regression-mcp/internal/model"

// Default thresholds.
const (
	DefaultSSIMThreshold     = 0.88
	DefaultDiffThreshold     = 0.12
	DefaultCriticalThreshold = 0.78
)

// Description is the text attached to every defect raised by Evaluate.
const Description = "UI deviation exceeds threshold"

// Thresholds configures Evaluate.
type Thresholds struct {
	// SSIM below this fails the comparison.
	SSIM float64 `json:"ssim_threshold"`
	// Diff is the mismatch ratio above which the comparison fails.
	Diff float64 `json:"diff_threshold"`
	// Critical is the SSIM at or below which a failure is critical.
	Critical float64 `json:"critical_threshold"`
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SSIM:     DefaultSSIMThreshold,
		Diff:     DefaultDiffThreshold,
		Critical: DefaultCriticalThreshold,
	}
}

// Scores are the aggregate measurements of one comparison.
type Scores struct {
	SSIM          float64
	MismatchRatio float64
}

type failRule struct {
	name  string
	fails func(s Scores, th Thresholds) bool
}

type severityRule struct {
	name     string
	applies  func(s Scores, th Thresholds) bool
	severity model.Severity
}

// failRules raise a defect when any of them holds.
var failRules = []failRule{
	{"ssim below threshold", func(s Scores, th Thresholds) bool { return s.SSIM < th.SSIM }},
	{"mismatch above threshold", func(s Scores, th Thresholds) bool { return s.MismatchRatio > th.Diff }},
}

// severityRules are evaluated in order; the first that applies wins.
var severityRules = []severityRule{
	{"structural collapse", func(s Scores, th Thresholds) bool { return s.SSIM <= th.Critical }, model.SeverityCritical},
	{"deviation", func(Scores, Thresholds) bool { return true }, model.SeverityMajor},
}

// Evaluate returns a defect when the scores breach the thresholds, or nil when
// the comparison passes.
func Evaluate(ssim, mismatchRatio float64, th Thresholds) *model.Defect {
	s := Scores{SSIM: ssim, MismatchRatio: mismatchRatio}
	if !Fails(s, th) {
		return nil
	}
	return &model.Defect{
		Severity:    Severity(s, th),
		Description: Description,
		Metadata: model.DefectMetadata{
			MismatchRatio: mismatchRatio,
			SSIMScore:     ssim,
		},
	}
}

// Fails reports whether any fail rule holds.
func Fails(s Scores, th Thresholds) bool {
	for _, r := range failRules {
		if r.fails(s, th) {
			return true
		}
	}
	return false
}

// Severity grades a failing comparison.
func Severity(s Scores, th Thresholds) model.Severity {
	for _, r := range severityRules {
		if r.applies(s, th) {
			return r.severity
		}
	}
	return model.SeverityMajor
}
