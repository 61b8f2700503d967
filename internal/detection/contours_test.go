package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

func TestContours(t *testing.T) {
	img := createRectangleImage(400, 300, 100, 100, 200, 150)
	want := model.FromRect(image.Rect(100, 100, 201, 151), 400, 300)

	proposals := Contours(img)
	if len(proposals) == 0 {
		t.Fatal("expected at least one contour proposal")
	}

	best := 0.0
	for _, p := range proposals {
		if !p.BBox.Valid() {
			t.Errorf("proposal box out of frame: %+v", p.BBox)
		}
		if iou := p.BBox.IoU(want); iou > best {
			best = iou
		}
	}
	if best < 0.7 {
		t.Errorf("no proposal matches the outlined rectangle: best IoU %.2f", best)
	}

	// 0.4 + relArea*12 with relArea around 0.045
	if proposals[0].Confidence < 0.9 {
		t.Errorf("confidence: got %.2f, want >= 0.9", proposals[0].Confidence)
	}
}

func TestContours_UniformImage(t *testing.T) {
	if got := Contours(createTestImage(200, 150, color.White)); len(got) != 0 {
		t.Errorf("expected no proposals, got %d", len(got))
	}
}

func TestContours_FrameSizedOutline(t *testing.T) {
	// An outline hugging the frame is a window border, not an element
	img := createRectangleImage(200, 150, 1, 1, 198, 148)

	for _, p := range Contours(img) {
		if p.BBox.W > 0.98 || p.BBox.H > 0.98 {
			t.Errorf("frame-sized box should be filtered: %+v", p.BBox)
		}
	}
}

func TestContours_LowContrast(t *testing.T) {
	img := createTestImage(400, 300, color.White)
	faint := color.RGBA{245, 245, 245, 255}
	for x := 100; x <= 200; x++ {
		img.Set(x, 100, faint)
		img.Set(x, 150, faint)
	}

	if got := Contours(img); len(got) != 0 {
		t.Errorf("faint outlines produce no edges, got %d proposals", len(got))
	}
}

func TestContours_EmptyImage(t *testing.T) {
	if got := Contours(image.NewRGBA(image.Rect(0, 0, 0, 0))); got != nil {
		t.Errorf("expected nil for zero-area image, got %v", got)
	}
}
