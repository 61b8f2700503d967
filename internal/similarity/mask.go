package similarity

import (
	"image"

	"github.com/anthonynsimon/bild/effect"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// morphRadius is the structuring element radius used to open the raw mask.
const morphRadius = 1

// DiffMask marks every pixel whose normalised RGB distance between ref and
// aligned exceeds threshold, then opens the mask (erode, dilate) so isolated
// anti-aliasing pixels drop out. Both images must share geometry.
func DiffMask(ref, aligned *image.NRGBA, threshold float64) *model.DiffMask {
	raw := RawDiffMask(ref, aligned, threshold)
	return Open(raw)
}

// RawDiffMask is DiffMask without the morphological opening.
func RawDiffMask(ref, aligned *image.NRGBA, threshold float64) *model.DiffMask {
	w, h := ref.Bounds().Dx(), ref.Bounds().Dy()
	mask := model.NewDiffMask(w, h)
	ab := aligned.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := image.Pt(x+ab.Min.X, y+ab.Min.Y)
			if !p.In(ab) {
				mask.Bits[y*w+x] = true
				continue
			}
			rp := ref.NRGBAAt(x+ref.Bounds().Min.X, y+ref.Bounds().Min.Y)
			if imgutil.PixelDistance(rp, aligned.NRGBAAt(p.X, p.Y)) > threshold {
				mask.Bits[y*w+x] = true
			}
		}
	}
	return mask
}

// Open applies a morphological opening to the mask. Empty and all-set masks
// are returned unchanged.
func Open(mask *model.DiffMask) *model.DiffMask {
	n := mask.Count()
	if n == 0 || n == len(mask.Bits) {
		return mask
	}
	eroded := effect.Erode(mask.Image(), morphRadius)
	opened := effect.Dilate(eroded, morphRadius)

	out := model.NewDiffMask(mask.Width, mask.Height)
	ob := opened.Bounds()
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if opened.Pix[opened.PixOffset(x+ob.Min.X, y+ob.Min.Y)] >= 128 {
				out.Bits[y*mask.Width+x] = true
			}
		}
	}
	return out
}
