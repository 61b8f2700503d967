package similarity

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// screen draws dark boxes on a white canvas.
func screen(w, h int, boxes ...image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			for _, b := range boxes {
				if (image.Point{x, y}).In(b) {
					c = color.NRGBA{30, 60, 200, 255}
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// grayOverlay blends every pixel halfway towards mid gray.
func grayOverlay(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	for i := 0; i < len(src.Pix); i += 4 {
		out.Pix[i] = uint8((int(src.Pix[i]) + 128) / 2)
		out.Pix[i+1] = uint8((int(src.Pix[i+1]) + 128) / 2)
		out.Pix[i+2] = uint8((int(src.Pix[i+2]) + 128) / 2)
		out.Pix[i+3] = 255
	}
	return out
}

func TestCompareIdentical(t *testing.T) {
	ref := screen(160, 120, image.Rect(20, 20, 100, 60), image.Rect(30, 80, 60, 100))
	act := screen(160, 120, image.Rect(20, 20, 100, 60), image.Rect(30, 80, 60, 100))

	res, err := Compare(ref, act, DefaultDiffThreshold)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.SSIM, 1e-12)
	assert.Equal(t, 0.0, res.MismatchRatio())
	assert.Equal(t, 0, res.Mask.Count())
	assert.Equal(t, ref.Bounds(), res.Aligned.Bounds())
}

func TestCompareGrayOverlay(t *testing.T) {
	ref := screen(120, 80, image.Rect(10, 10, 60, 40))
	res, err := Compare(ref, grayOverlay(ref), DefaultDiffThreshold)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.MismatchRatio(), 0.01)
	assert.Less(t, res.SSIM, 1.0)
}

func TestCompareDoesNotMutateInputs(t *testing.T) {
	ref := screen(50, 50, image.Rect(5, 5, 20, 20))
	act := screen(100, 100, image.Rect(10, 10, 40, 40))
	refPix := append([]uint8(nil), ref.Pix...)
	actPix := append([]uint8(nil), act.Pix...)

	res, err := Compare(ref, act, 0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 50, 50), res.Aligned.Bounds())
	require.Equal(t, refPix, ref.Pix)
	require.Equal(t, actPix, act.Pix)

	// Resized content still lines up with the reference.
	assert.Less(t, res.MismatchRatio(), 0.1)
}

func TestCompareInvalidGeometry(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	_, err := Compare(empty, screen(10, 10), DefaultDiffThreshold)
	require.ErrorIs(t, err, model.ErrInvalidGeometry)

	_, err = Compare(screen(10, 10), empty, DefaultDiffThreshold)
	require.ErrorIs(t, err, model.ErrInvalidGeometry)
}

func TestAlignIsDeterministic(t *testing.T) {
	ref := screen(64, 48)
	act := screen(97, 71, image.Rect(10, 10, 50, 30))
	a := Align(ref, act)
	b := Align(ref, act)
	require.Equal(t, a.Pix, b.Pix)
	require.Equal(t, image.Rect(0, 0, 64, 48), a.Bounds())
}

func TestCompareWithRegisterFallsBackToResize(t *testing.T) {
	// Flat boxes give registration nothing to match.
	ref := screen(64, 48, image.Rect(10, 10, 30, 30))
	act := screen(97, 71, image.Rect(15, 15, 45, 45))

	plain, err := Compare(ref, act, DefaultDiffThreshold)
	require.NoError(t, err)
	assert.False(t, plain.Registered)

	res, err := CompareWith(ref, act, Settings{Register: true})
	require.NoError(t, err)
	assert.False(t, res.Registered)
	assert.Equal(t, plain.Aligned.Pix, res.Aligned.Pix)
	assert.Equal(t, plain.SSIM, res.SSIM)
}

func TestSSIM(t *testing.T) {
	base := screen(64, 64, image.Rect(8, 8, 40, 24))

	t.Run("brightness shift tolerated", func(t *testing.T) {
		brighter := image.NewNRGBA(base.Bounds())
		copy(brighter.Pix, base.Pix)
		for i := 0; i < len(brighter.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				if brighter.Pix[i+c] < 250 {
					brighter.Pix[i+c] += 5
				}
			}
		}
		assert.Greater(t, SSIM(base, brighter), 0.9)
	})

	t.Run("layout change penalised", func(t *testing.T) {
		moved := screen(64, 64, image.Rect(8, 40, 40, 56))
		assert.Less(t, SSIM(base, moved), 0.9)
	})

	t.Run("smaller than window", func(t *testing.T) {
		tiny := screen(3, 2)
		assert.InDelta(t, 1.0, SSIM(tiny, screen(3, 2)), 1e-12)
	})

	t.Run("geometry mismatch", func(t *testing.T) {
		assert.Equal(t, 0.0, SSIM(base, screen(10, 10)))
	})

	t.Run("bounded", func(t *testing.T) {
		inverted := image.NewNRGBA(base.Bounds())
		for i := 0; i < len(base.Pix); i += 4 {
			inverted.Pix[i] = 255 - base.Pix[i]
			inverted.Pix[i+1] = 255 - base.Pix[i+1]
			inverted.Pix[i+2] = 255 - base.Pix[i+2]
			inverted.Pix[i+3] = 255
		}
		s := SSIM(base, inverted)
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	})
}

func TestDiffMaskSuppressesIsolatedPixels(t *testing.T) {
	ref := screen(40, 40)
	act := screen(40, 40)
	act.SetNRGBA(20, 20, color.NRGBA{0, 0, 0, 255})
	act.SetNRGBA(5, 33, color.NRGBA{0, 0, 0, 255})

	raw := RawDiffMask(ref, act, DefaultDiffThreshold)
	require.Equal(t, 2, raw.Count())

	opened := DiffMask(ref, act, DefaultDiffThreshold)
	assert.Equal(t, 0, opened.Count())
}

func TestDiffMaskKeepsSolidRegions(t *testing.T) {
	ref := screen(80, 60)
	act := screen(80, 60, image.Rect(20, 20, 40, 40))

	mask := DiffMask(ref, act, DefaultDiffThreshold)
	inside := mask.RatioIn(image.Rect(22, 22, 38, 38))
	assert.Equal(t, 1.0, inside)
	assert.Equal(t, 0, mask.CountIn(image.Rect(50, 0, 80, 60)))
}

func TestDiffMaskThreshold(t *testing.T) {
	ref := screen(20, 20)
	act := image.NewNRGBA(ref.Bounds())
	for i := 0; i < len(act.Pix); i += 4 {
		// 20/255 ≈ 0.078 per channel.
		act.Pix[i], act.Pix[i+1], act.Pix[i+2], act.Pix[i+3] = 235, 235, 235, 255
	}
	assert.Equal(t, 0, RawDiffMask(ref, act, 0.12).Count())
	assert.Equal(t, 400, RawDiffMask(ref, act, 0.05).Count())
}
