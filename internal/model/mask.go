package model

import "image"

// DiffMask is a binary grid marking pixels that differ beyond tolerance.
// Bits is row-major with Width*Height entries.
type DiffMask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewDiffMask allocates an all-clear mask.
func NewDiffMask(width, height int) *DiffMask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &DiffMask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether (x, y) is set. Out-of-range coordinates are clear.
func (m *DiffMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y). Out-of-range coordinates are ignored.
func (m *DiffMask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Bits[y*m.Width+x] = v
}

// Bounds returns the mask geometry as a rectangle anchored at the origin.
func (m *DiffMask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Count returns the number of set pixels.
func (m *DiffMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// CountIn returns the number of set pixels inside r (clipped to the mask).
func (m *DiffMask) CountIn(r image.Rectangle) int {
	r = r.Intersect(m.Bounds())
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] {
				n++
			}
		}
	}
	return n
}

// Ratio returns the share of set pixels over the whole mask, 0 for an empty mask.
func (m *DiffMask) Ratio() float64 {
	total := m.Width * m.Height
	if total == 0 {
		return 0
	}
	return float64(m.Count()) / float64(total)
}

// RatioIn returns the share of set pixels inside r, 0 when r misses the mask.
func (m *DiffMask) RatioIn(r image.Rectangle) float64 {
	r = r.Intersect(m.Bounds())
	area := r.Dx() * r.Dy()
	if area == 0 {
		return 0
	}
	return float64(m.CountIn(r)) / float64(area)
}

// Image renders the mask as a grayscale image, 255 for set pixels.
func (m *DiffMask) Image() *image.Gray {
	g := image.NewGray(m.Bounds())
	for i, b := range m.Bits {
		if b {
			g.Pix[(i/m.Width)*g.Stride+i%m.Width] = 255
		}
	}
	return g
}

// MaskFromGray builds a mask from a grayscale image, setting pixels whose value
// is at least level.
func MaskFromGray(g *image.Gray, level uint8) *DiffMask {
	b := g.Bounds()
	m := NewDiffMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if g.GrayAt(x+b.Min.X, y+b.Min.Y).Y >= level {
				m.Bits[y*m.Width+x] = true
			}
		}
	}
	return m
}
