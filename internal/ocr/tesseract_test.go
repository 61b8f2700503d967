//go:build tesseract

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createButtonImage renders a label on a white frame, scaled up by scale.
func createButtonImage(text string, scale int) *image.RGBA {
	w, h := len(text)*7+40, 40
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.Black)

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func newReader(t *testing.T) *Tesseract {
	t.Helper()
	r, err := New(Config{})
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestTesseract_ElementText(t *testing.T) {
	r := newReader(t)
	img := createButtonImage("SUBMIT", 3)

	got := ElementText(r, img, img.Bounds())
	if !strings.Contains(strings.ToUpper(got), "SUBMIT") {
		t.Errorf("expected SUBMIT, got %q", got)
	}
}

func TestTesseract_BlankImage(t *testing.T) {
	r := newReader(t)
	img := createButtonImage("", 2)

	if got := ElementText(r, img, img.Bounds()); got != "" {
		t.Logf("blank image produced %q", got)
	}
}
