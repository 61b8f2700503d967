package similarity

import (
	"image"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
)

const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
	ssimRange  = 255.0
)

var (
	ssimC1 = (ssimK1 * ssimRange) * (ssimK1 * ssimRange)
	ssimC2 = (ssimK2 * ssimRange) * (ssimK2 * ssimRange)
)

// SSIM returns the mean structural similarity of two equally sized images.
//
// Both images are reduced to luma and compared over every fully contained
// 7x7 window with uniform weights and sample (N-1) statistics. Images smaller
// than the window on a side use a window clipped to that side. Mismatched
// geometry or empty images score 0.
func SSIM(a, b image.Image) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if w == 0 || h == 0 || w != bb.Dx() || h != bb.Dy() {
		return 0
	}

	x := lumaPlane(a)
	y := lumaPlane(b)

	// Summed-area tables make every window O(1).
	sx := integral(x, nil, w, h)
	sy := integral(y, nil, w, h)
	sxx := integral(x, x, w, h)
	syy := integral(y, y, w, h)
	sxy := integral(x, y, w, h)

	winW, winH := min(ssimWindow, w), min(ssimWindow, h)
	n := float64(winW * winH)
	bessel := 1.0
	if n > 1 {
		bessel = n / (n - 1)
	}

	var total float64
	count := 0
	for top := 0; top+winH <= h; top++ {
		for left := 0; left+winW <= w; left++ {
			mx := boxSum(sx, w, left, top, winW, winH) / n
			my := boxSum(sy, w, left, top, winW, winH) / n
			vx := (boxSum(sxx, w, left, top, winW, winH)/n - mx*mx) * bessel
			vy := (boxSum(syy, w, left, top, winW, winH)/n - my*my) * bessel
			cxy := (boxSum(sxy, w, left, top, winW, winH)/n - mx*my) * bessel

			num := (2*mx*my + ssimC1) * (2*cxy + ssimC2)
			den := (mx*mx + my*my + ssimC1) * (vx + vy + ssimC2)
			total += num / den
			count++
		}
	}
	return total / float64(count)
}

// integral builds a (w+1)x(h+1) summed-area table of a, or of a*b when b is
// not nil.
func integral(a, b []float64, w, h int) []float64 {
	stride := w + 1
	sat := make([]float64, stride*(h+1))
	for yy := 0; yy < h; yy++ {
		var row float64
		for xx := 0; xx < w; xx++ {
			v := a[yy*w+xx]
			if b != nil {
				v *= b[yy*w+xx]
			}
			row += v
			sat[(yy+1)*stride+xx+1] = sat[yy*stride+xx+1] + row
		}
	}
	return sat
}

// boxSum reads the sum of a winW x winH window from a summed-area table.
func boxSum(sat []float64, w, left, top, winW, winH int) float64 {
	stride := w + 1
	x0, y0 := left, top
	x1, y1 := left+winW, top+winH
	return sat[y1*stride+x1] - sat[y0*stride+x1] - sat[y1*stride+x0] + sat[y0*stride+x0]
}

func lumaPlane(img image.Image) []float64 {
	src, ok := img.(*image.NRGBA)
	if !ok || src.Bounds().Min != (image.Point{}) {
		src = imgutil.ToNRGBA(img)
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	plane := make([]float64, w*h)
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			plane[yy*w+xx] = imgutil.Luma(src.NRGBAAt(xx, yy))
		}
	}
	return plane
}
