package detection

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func createCheckerImage(width, height int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestGrid_UniformFallback(t *testing.T) {
	proposals := Grid(createTestImage(300, 200, color.White))

	if len(proposals) != 2 {
		t.Fatalf("uniform frame should yield 2 fallback boxes, got %d", len(proposals))
	}
	for i, tx := range []float64{1.0 / 3, 2.0 / 3} {
		p := proposals[i]
		if math.Abs(p.BBox.X-(tx-0.15)) > 1e-9 || p.BBox.Y != 0.1 || p.BBox.W != 0.3 || p.BBox.H != 0.15 {
			t.Errorf("fallback box %d: got %+v", i, p.BBox)
		}
		if p.Confidence != 0.35 {
			t.Errorf("fallback confidence: got %.2f, want 0.35", p.Confidence)
		}
	}
}

func TestGrid_BusyCells(t *testing.T) {
	proposals := Grid(createCheckerImage(300, 200))

	// 4 rows x 3 columns
	if len(proposals) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(proposals))
	}

	first := proposals[0]
	// Cell (0,0)-(100,50) shrunk by 15 px and 7 px
	if math.Abs(first.BBox.X-15.0/300) > 1e-9 || math.Abs(first.BBox.W-70.0/300) > 1e-9 {
		t.Errorf("shrunk cell x/w: got %.4f/%.4f", first.BBox.X, first.BBox.W)
	}
	if math.Abs(first.BBox.Y-7.0/200) > 1e-9 || math.Abs(first.BBox.H-36.0/200) > 1e-9 {
		t.Errorf("shrunk cell y/h: got %.4f/%.4f", first.BBox.Y, first.BBox.H)
	}
	if first.Confidence != 1 {
		t.Errorf("confidence: got %.2f, want 1 (capped)", first.Confidence)
	}
}

func TestGrid_LargeFrameLayout(t *testing.T) {
	luma := make([][]float64, 1000)
	for y := range luma {
		luma[y] = make([]float64, 1300)
		for x := range luma[y] {
			if (x+y)%2 == 0 {
				luma[y][x] = 255
			}
		}
	}

	// 5 rows x 4 columns
	if got := gridProposals(luma, 1300, 1000); len(got) != 20 {
		t.Errorf("expected 20 cells, got %d", len(got))
	}
}
