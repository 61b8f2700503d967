package model

import (
	"errors"
	"fmt"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxClamp(t *testing.T) {
	tests := []struct {
		name string
		in   BoundingBox
		want BoundingBox
	}{
		{"inside", BoundingBox{0.1, 0.2, 0.3, 0.4}, BoundingBox{0.1, 0.2, 0.3, 0.4}},
		{"negative origin", BoundingBox{-0.2, -1, 0.5, 0.5}, BoundingBox{0, 0, 0.5, 0.5}},
		{"overflow right", BoundingBox{0.8, 0.1, 0.5, 0.2}, BoundingBox{0.8, 0.1, 0.2, 0.2}},
		{"overflow bottom", BoundingBox{0.1, 0.9, 0.2, 0.3}, BoundingBox{0.1, 0.9, 0.2, 0.1}},
		{"nan", BoundingBox{math.NaN(), 0.1, 0.1, 0.1}, BoundingBox{0, 0.1, 0.1, 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.W, got.W, 1e-9)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
			assert.True(t, got.Valid())
		})
	}
}

func TestBoundingBoxToRect(t *testing.T) {
	b := BoundingBox{X: 0.25, Y: 0.5, W: 0.5, H: 0.25}
	require.Equal(t, image.Rect(25, 50, 75, 75), b.ToRect(100, 100))

	tiny := BoundingBox{X: 0.999, Y: 0.999, W: 0.0001, H: 0.0001}
	r := tiny.ToRect(100, 100)
	require.Equal(t, 1, r.Dx())
	require.Equal(t, 1, r.Dy())
	require.True(t, r.In(image.Rect(0, 0, 100, 100)))
}

func TestFromRectRoundTrip(t *testing.T) {
	r := image.Rect(10, 20, 60, 40)
	b := FromRect(r, 200, 100)
	require.Equal(t, r, b.ToRect(200, 100))
}

func TestBoundingBoxIoU(t *testing.T) {
	a := BoundingBox{0, 0, 0.5, 0.5}
	assert.InDelta(t, 1.0, a.IoU(a), 1e-9)
	assert.InDelta(t, 0.0, a.IoU(BoundingBox{0.6, 0.6, 0.2, 0.2}), 1e-9)

	// Half overlap horizontally: inter 0.125, union 0.375.
	b := BoundingBox{0.25, 0, 0.5, 0.5}
	assert.InDelta(t, 1.0/3.0, a.IoU(b), 1e-9)
	assert.InDelta(t, 0.5, a.Containment(b), 1e-9)
}

func TestParseElementType(t *testing.T) {
	assert.Equal(t, TypeButton, ParseElementType(" Button "))
	assert.Equal(t, TypeLink, ParseElementType("link"))
	assert.Equal(t, TypeUnknown, ParseElementType("checkbox"))
	assert.Equal(t, "input #3", DisplayName(TypeInput, 3))
}

func TestDiffMaskCounts(t *testing.T) {
	m := NewDiffMask(10, 10)
	for x := 0; x < 5; x++ {
		m.Set(x, 0, true)
	}
	m.Set(20, 20, true) // ignored
	require.Equal(t, 5, m.Count())
	require.Equal(t, 5, m.CountIn(image.Rect(0, 0, 10, 1)))
	require.Equal(t, 2, m.CountIn(image.Rect(3, 0, 100, 100)))
	assert.InDelta(t, 0.05, m.Ratio(), 1e-9)
	assert.InDelta(t, 0.5, m.RatioIn(image.Rect(0, 0, 10, 1)), 1e-9)
	assert.Equal(t, 0.0, m.RatioIn(image.Rect(50, 50, 60, 60)))

	g := m.Image()
	back := MaskFromGray(g, 128)
	require.Equal(t, m.Bits, back.Bits)
}

func TestErrorTaxonomy(t *testing.T) {
	loadErr := fmt.Errorf("compare: %w", &ImageLoadError{Source: "ref.png", Err: errors.New("bad header")})
	require.ErrorIs(t, loadErr, ErrImageLoad)
	require.NotErrorIs(t, loadErr, ErrInvalidGeometry)

	var le *ImageLoadError
	require.ErrorAs(t, loadErr, &le)
	require.Equal(t, "ref.png", le.Source)

	geoErr := &InvalidGeometryError{Width: 0, Height: 10}
	require.ErrorIs(t, geoErr, ErrInvalidGeometry)
	require.Contains(t, geoErr.Error(), "0x10")
}
