package classify

import (
	"fmt"
	"image"
	"sync"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Region is the pixel content under one bounding box plus the geometry of
// the frame it was cut from.
type Region struct {
	Pixels      *image.NRGBA
	Rect        image.Rectangle
	FrameWidth  int
	FrameHeight int

	once  sync.Once
	stats *imgutil.Stats
}

// NewRegion cuts bbox out of frame.
func NewRegion(frame image.Image, bbox model.BoundingBox) (*Region, error) {
	if err := imgutil.CheckGeometry(frame); err != nil {
		return nil, err
	}
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	rect := bbox.Clamp().ToRect(w, h)
	pixels, err := imgutil.Crop(frame, rect)
	if err != nil {
		return nil, fmt.Errorf("failed to crop region: %w", err)
	}
	return &Region{Pixels: pixels, Rect: rect, FrameWidth: w, FrameHeight: h}, nil
}

// Stats returns the pixel statistics of the region, computed once.
func (r *Region) Stats() *imgutil.Stats {
	r.once.Do(func() {
		r.stats = imgutil.RegionStats(r.Pixels)
	})
	return r.stats
}

// AspectRatio is absolute width over absolute height.
func (r *Region) AspectRatio() float64 {
	return float64(r.Rect.Dx()) / float64(max(r.Rect.Dy(), 1))
}

// RelativeArea is the share of the frame covered by the region.
func (r *Region) RelativeArea() float64 {
	total := r.FrameWidth * r.FrameHeight
	if total == 0 {
		return 0
	}
	return float64(r.Rect.Dx()*r.Rect.Dy()) / float64(total)
}

// Classifier maps a region to an element type and a confidence in [0,1].
type Classifier interface {
	Classify(r *Region) (model.ElementType, float64)
}

// Func adapts a plain function to Classifier.
type Func func(r *Region) (model.ElementType, float64)

// Classify calls f.
func (f Func) Classify(r *Region) (model.ElementType, float64) { return f(r) }
