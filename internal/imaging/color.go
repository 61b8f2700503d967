package imaging

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the number of luma histogram buckets in RegionStats.
const HistogramBins = 5

// Stats summarises the pixels of an image region for element classification.
//
// Brightness values are luma in the 0-255 range. Hue is in degrees,
// saturation and value are in [0,1].
type Stats struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	MeanBrightness float64 `json:"mean_brightness"`
	// Contrast is the population standard deviation of luma.
	Contrast      float64 `json:"contrast"`
	MinBrightness float64 `json:"min_brightness"`
	MaxBrightness float64 `json:"max_brightness"`

	// EdgeDensity is the share of pixels marked by EdgeMap(img, 50, 150).
	EdgeDensity float64 `json:"edge_density"`
	// EdgeMean is the mean edge-map value, 0-255.
	EdgeMean float64 `json:"edge_mean"`

	Histogram [HistogramBins]float64 `json:"histogram"`

	// TextureMean and TextureStd describe the response of a 3x3 Laplacian.
	TextureMean float64 `json:"texture_mean"`
	TextureStd  float64 `json:"texture_std"`

	HueMean        float64 `json:"hue_mean"`
	SaturationMean float64 `json:"saturation_mean"`
	ValueMean      float64 `json:"value_mean"`

	// BorderStd is the mean luma standard deviation of the four border strips.
	// Outlined controls score high.
	BorderStd float64 `json:"border_std"`
}

// HasBorder reports whether the region looks framed by a visible outline.
func (s *Stats) HasBorder() bool {
	return s.BorderStd > 15
}

// RegionStats measures img. Zero-area images return a zero Stats.
func RegionStats(img image.Image) *Stats {
	src := ToNRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	s := &Stats{Width: w, Height: h}
	if w == 0 || h == 0 {
		return s
	}

	luma := make([]float64, w*h)
	var hueSum, satSum, valSum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := src.NRGBAAt(x, y)
			luma[y*w+x] = Luma(px)
			hh, ss, vv := colorful.Color{
				R: float64(px.R) / 255,
				G: float64(px.G) / 255,
				B: float64(px.B) / 255,
			}.Hsv()
			hueSum += hh
			satSum += ss
			valSum += vv
		}
	}
	n := float64(w * h)

	s.MeanBrightness, s.Contrast = stat.PopMeanStdDev(luma, nil)
	s.MinBrightness = floats.Min(luma)
	s.MaxBrightness = floats.Max(luma)
	s.HueMean = hueSum / n
	s.SaturationMean = satSum / n
	s.ValueMean = valSum / n

	for _, v := range luma {
		bin := int(v * HistogramBins / 256)
		if bin >= HistogramBins {
			bin = HistogramBins - 1
		}
		s.Histogram[bin]++
	}
	for i := range s.Histogram {
		s.Histogram[i] /= n
	}

	edges := EdgeMap(src, 50, 150)
	s.EdgeDensity = EdgeDensity(edges)
	s.EdgeMean = s.EdgeDensity * 255

	s.TextureMean, s.TextureStd = laplacianTexture(luma, w, h)
	s.BorderStd = borderStd(luma, w, h)
	return s
}

// laplacianTexture applies the 8-neighbour Laplacian to the interior of the
// luma grid. Regions of 3 pixels or less on a side have no texture.
func laplacianTexture(luma []float64, w, h int) (mean, std float64) {
	if w <= 3 || h <= 3 {
		return 0, 0
	}
	resp := make([]float64, 0, w*h)
	abs := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := luma[clamp(y+ky, 0, h-1)*w+clamp(x+kx, 0, w-1)]
					if kx == 0 && ky == 0 {
						sum += 8 * v
					} else {
						sum -= v
					}
				}
			}
			resp = append(resp, sum)
			abs = append(abs, math.Abs(sum))
		}
	}
	_, std = stat.PopMeanStdDev(resp, nil)
	return stat.Mean(abs, nil), std
}

// borderStd averages the luma spread of the top, bottom, left and right
// strips. Strip thickness is 5% of the short side, between 1 and 3 pixels.
func borderStd(luma []float64, w, h int) float64 {
	t := int(float64(min(w, h)) * 0.05)
	t = clamp(t, 1, 3)
	if w <= 2*t || h <= 2*t {
		return 0
	}

	strip := func(x0, y0, x1, y1 int) float64 {
		vals := make([]float64, 0, (x1-x0)*(y1-y0))
		for y := y0; y < y1; y++ {
			vals = append(vals, luma[y*w+x0:y*w+x1]...)
		}
		_, sd := stat.PopMeanStdDev(vals, nil)
		return sd
	}
	return (strip(0, 0, w, t) +
		strip(0, h-t, w, h) +
		strip(0, 0, t, h) +
		strip(w-t, 0, w, h)) / 4
}
