package diagnostics

import "github.com/ironsheep/ui-regression-mcp/internal/model"

// Coverage returns the percentage of diagnostics that are matched, 0 when
// there are none.
func Coverage(diags []model.ElementDiagnostic) float64 {
	if len(diags) == 0 {
		return 0
	}
	matched := 0
	for _, d := range diags {
		if d.Status == model.StatusMatched {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(diags))
}

// Summarize counts diagnostics per status.
func Summarize(diags []model.ElementDiagnostic) model.Stats {
	s := model.Stats{Total: len(diags)}
	for _, d := range diags {
		switch d.Status {
		case model.StatusMatched:
			s.Matched++
		case model.StatusShifted:
			s.Shifted++
		case model.StatusChanged:
			s.Changed++
		case model.StatusMissing:
			s.Missing++
		}
	}
	return s
}
