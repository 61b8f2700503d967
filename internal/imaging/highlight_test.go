package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeEncoded(t *testing.T, enc *EncodedImage) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func rgb8(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestHighlight(t *testing.T) {
	src := createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255})

	enc, err := Highlight(src, []HighlightBox{
		{Rect: image.Rect(10, 10, 60, 40), Label: "#1", ColorHex: "#00FF00"},
	}, 2)
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}
	if enc.Width != 100 || enc.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", enc.Width, enc.Height)
	}

	out := decodeEncoded(t, enc)

	// Bottom edge of the outline, away from the label.
	if r, g, b := rgb8(out.At(50, 39)); r != 0 || g != 255 || b != 0 {
		t.Errorf("outline at (50,39): got (%d,%d,%d), want green", r, g, b)
	}
	// Second pixel of thickness.
	if _, g, _ := rgb8(out.At(50, 38)); g != 255 {
		t.Error("thickness 2 not drawn")
	}
	// Interior stays untouched.
	if r, g, b := rgb8(out.At(40, 30)); r != 0 || g != 0 || b != 0 {
		t.Errorf("interior modified: (%d,%d,%d)", r, g, b)
	}

	// Source image is not modified.
	if r, g, b := rgb8(src.At(50, 39)); r != 0 || g != 0 || b != 0 {
		t.Error("Highlight modified the source image")
	}
}

func TestHighlight_ClipsAndFallsBack(t *testing.T) {
	src := createInMemoryImage(50, 50, color.White)

	enc, err := Highlight(src, []HighlightBox{
		{Rect: image.Rect(40, 40, 90, 90), ColorHex: "bogus"},
		{Rect: image.Rect(200, 200, 300, 300), ColorHex: "#0000FF"},
	}, 0)
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}

	out := decodeEncoded(t, enc)
	if r, g, b := rgb8(out.At(45, 40)); r != 255 || g != 0 || b != 0 {
		t.Errorf("fallback color at (45,40): got (%d,%d,%d), want red", r, g, b)
	}
}

func TestHighlight_InvalidImage(t *testing.T) {
	if _, err := Highlight(image.NewRGBA(image.Rectangle{}), nil, 1); err == nil {
		t.Error("Highlight should reject an empty image")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseHexColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 255}

	drawLabel(img, 2, 2, "#12", fg, bg)

	// '1' glyph, second column of the first row, starts at x = 2 + 4.
	if img.RGBAAt(7, 2) != fg {
		t.Errorf("glyph pixel not drawn: %v", img.RGBAAt(7, 2))
	}
	if img.RGBAAt(1, 1) != bg {
		t.Errorf("background not drawn: %v", img.RGBAAt(1, 1))
	}

	// Out-of-range labels must not panic.
	drawLabel(img, 38, 18, "999", fg, bg)
	drawLabel(img, 0, 0, "abc", fg, bg)
}
