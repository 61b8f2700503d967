package similarity

import (
	"image"

	"github.com/disintegration/imaging"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// DefaultDiffThreshold is the per-pixel tolerance on the normalised 0-1 color
// distance scale.
const DefaultDiffThreshold = 0.12

// Result is the outcome of aligning and comparing one image pair.
type Result struct {
	// Aligned is the actual image resampled onto the reference geometry.
	Aligned *image.NRGBA
	// Reference is an origin-anchored copy of the reference image.
	Reference *image.NRGBA
	Mask      *model.DiffMask
	SSIM      float64
	// Registered reports that feature registration produced Aligned.
	Registered bool
}

// Settings control one comparison.
type Settings struct {
	// DiffThreshold is the per-pixel tolerance. Zero or less selects
	// DefaultDiffThreshold.
	DiffThreshold float64
	// Register tries feature registration before falling back to Align.
	Register bool
}

// MismatchRatio is the share of mask pixels marked as different.
func (r *Result) MismatchRatio() float64 {
	return r.Mask.Ratio()
}

// Compare aligns actual to reference by resizing and computes SSIM and the
// difference mask.
//
// A diffThreshold of zero or less selects DefaultDiffThreshold. A reference or
// actual image with zero area is rejected with *model.InvalidGeometryError.
func Compare(reference, actual image.Image, diffThreshold float64) (*Result, error) {
	return CompareWith(reference, actual, Settings{DiffThreshold: diffThreshold})
}

// CompareWith is Compare with explicit settings.
func CompareWith(reference, actual image.Image, set Settings) (*Result, error) {
	if err := imgutil.CheckGeometry(reference); err != nil {
		return nil, err
	}
	if err := imgutil.CheckGeometry(actual); err != nil {
		return nil, err
	}
	diffThreshold := set.DiffThreshold
	if diffThreshold <= 0 {
		diffThreshold = DefaultDiffThreshold
	}

	ref := imgutil.ToNRGBA(reference)
	var aligned *image.NRGBA
	registered := false
	if set.Register {
		aligned, registered = Register(ref, actual)
	}
	if !registered {
		aligned = Align(ref, actual)
	}

	return &Result{
		Aligned:    aligned,
		Reference:  ref,
		Mask:       DiffMask(ref, aligned, diffThreshold),
		SSIM:       SSIM(ref, aligned),
		Registered: registered,
	}, nil
}

// Align resamples actual onto the pixel grid of reference with bilinear
// interpolation. When the geometries already agree the result is a plain copy.
func Align(reference, actual image.Image) *image.NRGBA {
	rb := reference.Bounds()
	ab := actual.Bounds()
	if rb.Dx() == ab.Dx() && rb.Dy() == ab.Dy() {
		return imgutil.ToNRGBA(actual)
	}
	return imaging.Resize(actual, rb.Dx(), rb.Dy(), imaging.Linear)
}
