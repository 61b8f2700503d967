package classify

import (
	"math"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
)

// FeatureNames labels each position of the vector returned by Features.
var FeatureNames = []string{
	"aspect_ratio", "area", "relative_area", "width", "height",
	"mean_brightness", "contrast", "min_brightness", "max_brightness",
	"edge_density", "edge_mean",
	"hist_0", "hist_1", "hist_2", "hist_3", "hist_4",
	"texture_mean", "texture_std",
	"hue_mean", "saturation_mean", "value_mean",
	"border_std", "relative_width", "relative_height", "center_y",
}

// FeatureCount is the length of a feature vector.
var FeatureCount = len(FeatureNames)

// Features turns a region into the fixed-length vector used by Trainable.
// Non-finite values are replaced with 0. Empty regions yield a zero vector.
func Features(r *Region) []float64 {
	v := make([]float64, FeatureCount)
	if r == nil || r.Rect.Empty() || r.FrameWidth == 0 || r.FrameHeight == 0 {
		return v
	}
	s := r.Stats()
	w, h := float64(r.Rect.Dx()), float64(r.Rect.Dy())
	fw, fh := float64(r.FrameWidth), float64(r.FrameHeight)

	v = append(v[:0],
		r.AspectRatio(), w*h, r.RelativeArea(), w, h,
		s.MeanBrightness, s.Contrast, s.MinBrightness, s.MaxBrightness,
		s.EdgeDensity, s.EdgeMean,
	)
	v = append(v, s.Histogram[:imgutil.HistogramBins]...)
	v = append(v,
		s.TextureMean, s.TextureStd,
		s.HueMean, s.SaturationMean, s.ValueMean,
		s.BorderStd, w/fw, h/fh, (float64(r.Rect.Min.Y)+h/2)/fh,
	)
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[i] = 0
		}
	}
	return v
}
