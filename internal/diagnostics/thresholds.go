package diagnostics

import "math"

// DefaultMaxShiftPx bounds the shift search radius in pixels.
const DefaultMaxShiftPx = 18

// Thresholds drive the tier table. All ratios are shares of the element box.
type Thresholds struct {
	// Missing is the ratio at or above which an element is missing.
	Missing float64 `json:"missing_threshold"`
	// Changed is the ratio at or above which an element is changed.
	Changed float64 `json:"changed_threshold"`
	// MinRatio is the noise floor. Ratios below it are matched.
	MinRatio float64 `json:"min_ratio"`
	// MaxShiftPx is the Chebyshev radius of the shift search. Zero disables it.
	MaxShiftPx int `json:"max_shift_px"`
}

// DefaultThresholds derives the tier thresholds from the comparison settings.
//
// Missing is min(0.95, diffThreshold+0.45) and Changed is
// max(0.15, elementRatio). Both formulas are tunable and carry no deeper
// derivation. A negative shiftPx selects DefaultMaxShiftPx.
func DefaultThresholds(diffThreshold, elementRatio float64, shiftPx int) Thresholds {
	if shiftPx < 0 {
		shiftPx = DefaultMaxShiftPx
	}
	return Thresholds{
		Missing:    math.Min(0.95, diffThreshold+0.45),
		Changed:    math.Max(0.15, elementRatio),
		MinRatio:   elementRatio,
		MaxShiftPx: shiftPx,
	}
}
