package imaging

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxRGBDistance is the Euclidean distance between black and white in unit RGB.
var maxRGBDistance = math.Sqrt(3)

// PixelDistance returns the RGB distance between two pixels normalised to [0,1].
//
// 0 means identical colors, 1 means black against white. Alpha is ignored.
func PixelDistance(a, b color.NRGBA) float64 {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return ca.DistanceRgb(cb) / maxRGBDistance
}

// Luma returns the ITU-R BT.601 luminance of a pixel in the 0-255 range.
func Luma(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Offset is a pixel displacement.
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Length returns the Euclidean length of the offset.
func (o Offset) Length() float64 {
	return math.Hypot(float64(o.DX), float64(o.DY))
}

// RegionMismatch compares the pixels of ref inside r with the pixels of act at
// the same positions moved by off, and returns the share that differ by more
// than tolerance (see PixelDistance).
//
// Positions that land outside act count as different. Both images must be
// anchored at the origin. An empty region returns 0.
func RegionMismatch(ref, act *image.NRGBA, r image.Rectangle, off Offset, tolerance float64) float64 {
	r = r.Intersect(ref.Bounds())
	area := r.Dx() * r.Dy()
	if area == 0 {
		return 0
	}
	return float64(CountMismatch(ref, act, r, off, tolerance, area)) / float64(area)
}

// CountMismatch counts differing pixels like RegionMismatch but stops as soon
// as the count reaches limit, returning limit. Searches use it to abandon
// candidates that can no longer beat the best one found so far.
func CountMismatch(ref, act *image.NRGBA, r image.Rectangle, off Offset, tolerance float64, limit int) int {
	r = r.Intersect(ref.Bounds())
	actBounds := act.Bounds()
	different := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ay := y + off.DY
		for x := r.Min.X; x < r.Max.X; x++ {
			ax := x + off.DX
			if !(image.Point{ax, ay}).In(actBounds) ||
				PixelDistance(ref.NRGBAAt(x, y), act.NRGBAAt(ax, ay)) > tolerance {
				different++
				if different >= limit {
					return limit
				}
			}
		}
	}
	return different
}
