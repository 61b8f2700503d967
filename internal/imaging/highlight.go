package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// HighlightBox is one rectangle to outline on an overlay.
type HighlightBox struct {
	// Rect is in pixels relative to the image origin.
	Rect image.Rectangle
	// Label is drawn at the top-left corner. Only digits, '#' and ',' render.
	Label string
	// ColorHex is "#RRGGBB" or "#RRGGBBAA"; invalid values fall back to red.
	ColorHex string
}

// Highlight draws outlined, labelled boxes over a copy of img.
//
// Boxes are clipped to the image; the source image is not modified.
// Thickness below 1 is treated as 1.
func Highlight(img image.Image, boxes []HighlightBox, thickness int) (*EncodedImage, error) {
	if err := CheckGeometry(img); err != nil {
		return nil, err
	}
	if thickness < 1 {
		thickness = 1
	}

	src := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(result, result.Bounds(), img, src.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	for _, box := range boxes {
		c, err := parseHexColor(box.ColorHex)
		if err != nil {
			c = color.RGBA{255, 0, 0, 255}
		}
		r := box.Rect.Intersect(result.Bounds())
		if r.Empty() {
			continue
		}
		for i := 0; i < thickness; i++ {
			outline(result, r.Inset(i), c)
		}
		if box.Label != "" {
			drawLabel(result, r.Min.X+thickness+1, r.Min.Y+thickness+1, box.Label, labelColor, c)
		}
	}

	return EncodePNG(result)
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// glyphs is a 3x5 pixel font covering element labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'#': {"101", "111", "101", "111", "101"},
}

// drawLabel draws text on a filled background with its top-left corner at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				p := image.Pt(cx+col, y+row)
				if p.In(bounds) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
