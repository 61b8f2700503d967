package engine

import (
	"github.com/ironsheep/ui-regression-mcp/internal/diagnostics"
	"github.com/ironsheep/ui-regression-mcp/internal/fusion"
	"github.com/ironsheep/ui-regression-mcp/internal/policy"
	"github.com/ironsheep/ui-regression-mcp/internal/similarity"
)

// Options is the configuration surface of one call.
type Options struct {
	UsePrimaryDetector   bool    `json:"use_primary_detector"`
	PrimaryConfThreshold float64 `json:"primary_conf_threshold"`
	// DiffThreshold is the per-pixel color tolerance and the mismatch ratio
	// above which a comparison fails.
	DiffThreshold float64 `json:"diff_threshold"`
	SSIMThreshold float64 `json:"ssim_threshold"`
	// ElementDiffRatio feeds the diagnostic noise floor and changed threshold.
	ElementDiffRatio float64 `json:"element_diff_ratio"`
	ElementShiftPx   int     `json:"element_shift_px"`
	// DisableShiftSearch grades ambiguous elements as changed without
	// looking for a displaced copy.
	DisableShiftSearch bool `json:"disable_shift_search"`
	// FeatureAlign registers actual onto reference with a feature homography
	// when the build supports it.
	FeatureAlign bool `json:"feature_align"`
	ExtractText  bool `json:"extract_text"`
}

// DefaultElementDiffRatio is the default ElementDiffRatio.
const DefaultElementDiffRatio = 0.12

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		UsePrimaryDetector:   true,
		PrimaryConfThreshold: fusion.DefaultPrimaryConfThreshold,
		DiffThreshold:        similarity.DefaultDiffThreshold,
		SSIMThreshold:        policy.DefaultSSIMThreshold,
		ElementDiffRatio:     DefaultElementDiffRatio,
		ElementShiftPx:       diagnostics.DefaultMaxShiftPx,
	}
}

// withDefaults fills zero and negative values with the defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PrimaryConfThreshold <= 0 {
		o.PrimaryConfThreshold = d.PrimaryConfThreshold
	}
	if o.DiffThreshold <= 0 {
		o.DiffThreshold = d.DiffThreshold
	}
	if o.SSIMThreshold <= 0 {
		o.SSIMThreshold = d.SSIMThreshold
	}
	if o.ElementDiffRatio <= 0 {
		o.ElementDiffRatio = d.ElementDiffRatio
	}
	if o.ElementShiftPx <= 0 {
		o.ElementShiftPx = d.ElementShiftPx
	}
	return o
}

func (o Options) fusion() fusion.Options {
	return fusion.Options{
		UsePrimary:           o.UsePrimaryDetector,
		PrimaryConfThreshold: o.PrimaryConfThreshold,
		DedupeIoU:            fusion.DefaultDedupeIoU,
		ExtractText:          o.ExtractText,
	}
}

func (o Options) diagnostics() diagnostics.Thresholds {
	th := diagnostics.DefaultThresholds(o.DiffThreshold, o.ElementDiffRatio, o.ElementShiftPx)
	if o.DisableShiftSearch {
		th.MaxShiftPx = 0
	}
	return th
}

func (o Options) policy() policy.Thresholds {
	th := policy.DefaultThresholds()
	th.SSIM = o.SSIMThreshold
	th.Diff = o.DiffThreshold
	return th
}
