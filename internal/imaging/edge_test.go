package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeMap(t *testing.T) {
	edges := EdgeMap(createEdgeTestImage(100, 100), 50, 150)

	if edges.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds: got %v", edges.Bounds())
	}

	// The rectangle boundary runs along x=25; the middle of the square is flat.
	found := false
	for x := 22; x <= 28; x++ {
		if edges.GrayAt(x, 50).Y == 255 {
			found = true
		}
	}
	if !found {
		t.Error("no edge found near x=25")
	}
	if edges.GrayAt(50, 50).Y != 0 {
		t.Error("edge reported inside flat area")
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	edges := EdgeMap(createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}), 50, 150)
	if d := EdgeDensity(edges); d != 0 {
		t.Errorf("uniform image edge density: got %.4f, want 0", d)
	}
}

func TestEdgeMap_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 40, 40))
	edges := EdgeMap(src, 50, 150)
	if edges.Bounds() != image.Rect(0, 0, 30, 30) {
		t.Errorf("edge map not anchored at origin: %v", edges.Bounds())
	}
}

func TestEdgeMap_SmallImage(t *testing.T) {
	for _, size := range []int{1, 2, 3} {
		edges := EdgeMap(createInMemoryImage(size, size, color.White), 50, 150)
		if edges.Bounds().Dx() != size {
			t.Errorf("size %d: got width %d", size, edges.Bounds().Dx())
		}
	}
}

func TestEdgeDensity(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		g.SetGray(x, 0, color.Gray{255})
	}
	if d := EdgeDensity(g); d != 0.1 {
		t.Errorf("EdgeDensity: got %.3f, want 0.1", d)
	}
	if d := EdgeDensity(image.NewGray(image.Rectangle{})); d != 0 {
		t.Errorf("empty EdgeDensity: got %.3f, want 0", d)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	// Black rectangle in center (creates 4 edges)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}

	return img
}
