package model

import (
	"image"
	"math"
)

// BoundingBox is a rectangle expressed as fractions of the frame size.
//
// X and Y locate the top-left corner, W and H are the extent. A valid box
// satisfies 0 <= X, Y and X+W <= 1, Y+H <= 1.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Clamp returns the box forced inside the unit square.
//
// Negative origins are moved to zero, sizes are cut at the frame edge and
// NaN values collapse to zero.
func (b BoundingBox) Clamp() BoundingBox {
	x := clampUnit(b.X)
	y := clampUnit(b.Y)
	w := clampUnit(b.W)
	h := clampUnit(b.H)
	if x+w > 1 {
		w = 1 - x
	}
	if y+h > 1 {
		h = 1 - y
	}
	return BoundingBox{X: x, Y: y, W: w, H: h}
}

// Valid reports whether the box already satisfies the unit-square invariant.
func (b BoundingBox) Valid() bool {
	return b.X >= 0 && b.Y >= 0 && b.W >= 0 && b.H >= 0 &&
		b.X+b.W <= 1+1e-9 && b.Y+b.H <= 1+1e-9
}

// ToRect converts the box to absolute pixels for a frame of width x height.
//
// The result is always inside the frame and at least 1x1 pixel, so callers can
// index masks and images with it without further checks.
func (b BoundingBox) ToRect(width, height int) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	x := clampInt(int(b.X*float64(width)), 0, width-1)
	y := clampInt(int(b.Y*float64(height)), 0, height-1)
	w := clampInt(int(b.W*float64(width)), 1, width-x)
	h := clampInt(int(b.H*float64(height)), 1, height-y)
	return image.Rect(x, y, x+w, y+h)
}

// FromRect builds a relative box from an absolute rectangle on a frame of
// width x height. The rectangle is intersected with the frame first.
func FromRect(r image.Rectangle, width, height int) BoundingBox {
	if width <= 0 || height <= 0 {
		return BoundingBox{}
	}
	r = r.Intersect(image.Rect(0, 0, width, height))
	return BoundingBox{
		X: float64(r.Min.X) / float64(width),
		Y: float64(r.Min.Y) / float64(height),
		W: float64(r.Dx()) / float64(width),
		H: float64(r.Dy()) / float64(height),
	}.Clamp()
}

// Area returns the relative area W*H, which equals the share of the frame the
// box covers.
func (b BoundingBox) Area() float64 {
	return b.W * b.H
}

// AspectRatio returns absolute width over absolute height for a frame of the
// given size. Heights below one pixel are treated as one pixel.
func (b BoundingBox) AspectRatio(width, height int) float64 {
	absH := math.Max(b.H*float64(height), 1)
	return b.W * float64(width) / absH
}

// IoU returns the intersection-over-union of two boxes.
//
// Both boxes must live on the same frame; since the ratio is scale-invariant
// it can be computed directly on relative coordinates.
func (b BoundingBox) IoU(o BoundingBox) float64 {
	ix1 := math.Max(b.X, o.X)
	iy1 := math.Max(b.Y, o.Y)
	ix2 := math.Min(b.X+b.W, o.X+o.W)
	iy2 := math.Min(b.Y+b.H, o.Y+o.H)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	inter := (ix2 - ix1) * (iy2 - iy1)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Containment returns the intersection area divided by the smaller box area.
func (b BoundingBox) Containment(o BoundingBox) float64 {
	ix1 := math.Max(b.X, o.X)
	iy1 := math.Max(b.Y, o.Y)
	ix2 := math.Min(b.X+b.W, o.X+o.W)
	iy2 := math.Min(b.Y+b.H, o.Y+o.H)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	smaller := math.Min(b.Area(), o.Area())
	if smaller <= 0 {
		return 0
	}
	return (ix2 - ix1) * (iy2 - iy1) / smaller
}

// Union returns the smallest box enclosing both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	x1 := math.Min(b.X, o.X)
	y1 := math.Min(b.Y, o.Y)
	x2 := math.Max(b.X+b.W, o.X+o.W)
	y2 := math.Max(b.Y+b.H, o.Y+o.H)
	return BoundingBox{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}.Clamp()
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
