package detection

import (
	"image"
	"image/color"
	"testing"
)

// createTextPatternImage creates an image with text-like edge patterns
func createTextPatternImage(width, height int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	// Rows of short strokes with gaps, like glyphs on a line
	for y := 20; y < 80; y += 10 {
		for x := 20; x < width-20; x++ {
			if x%15 < 5 {
				img.Set(x, y, color.Black)
				img.Set(x, y+1, color.Black)
				img.Set(x, y+5, color.Black)
			}
		}
	}

	return img
}

func TestTextWindows(t *testing.T) {
	img := createTextPatternImage(200, 150)

	proposals := TextWindows(img, 0.3)
	for _, p := range proposals {
		if !p.BBox.Valid() {
			t.Errorf("invalid box %+v", p.BBox)
		}
		if p.ClassName != "" {
			t.Errorf("text windows carry no class, got %q", p.ClassName)
		}
	}
	t.Logf("Detected %d text windows", len(proposals))
}

func TestTextWindows_MinConfidence(t *testing.T) {
	img := createTextPatternImage(200, 150)

	low := TextWindows(img, 0.1)
	high := TextWindows(img, 0.8)

	if len(high) > len(low) {
		t.Errorf("Higher minConfidence should give fewer results: low=%d, high=%d", len(low), len(high))
	}
}

func TestTextWindows_EmptyImage(t *testing.T) {
	if got := TextWindows(createTestImage(200, 150, color.White), 0.3); len(got) != 0 {
		t.Errorf("Expected 0 text windows in empty image, got %d", len(got))
	}
}

func TestTextWindows_SortedByConfidence(t *testing.T) {
	proposals := TextWindows(createTextPatternImage(300, 200), 0.2)

	for i := 1; i < len(proposals); i++ {
		if proposals[i-1].Confidence < proposals[i].Confidence {
			t.Error("Text windows should be sorted by confidence (highest first)")
			break
		}
	}
}

func TestTextWindows_SmallImage(t *testing.T) {
	// Smaller than every window
	if got := TextWindows(createTestImage(50, 20, color.White), 0.3); len(got) != 0 {
		t.Errorf("expected no windows, got %d", len(got))
	}
}

func TestCalculateHorizontalScore(t *testing.T) {
	edges := emptyEdges(50, 50)
	for y := 10; y < 40; y += 5 {
		for x := 5; x < 45; x++ {
			edges[y][x] = true
		}
	}

	score := calculateHorizontalScore(edges, 0, 0, 50, 50)

	// 6 horizontal runs against 40 columns crossed 6 times each
	if score < 0 || score > 1 {
		t.Errorf("Score should be between 0 and 1, got %.2f", score)
	}
}

func TestCalculateHorizontalScore_Empty(t *testing.T) {
	if score := calculateHorizontalScore(emptyEdges(50, 50), 0, 0, 50, 50); score != 0 {
		t.Errorf("Empty edges should have score 0, got %.2f", score)
	}
}

func TestMergeOverlappingRegions(t *testing.T) {
	regions := []textRegion{
		{Rect: image.Rect(10, 10, 50, 30), Confidence: 0.8},
		{Rect: image.Rect(30, 10, 70, 30), Confidence: 0.7},
		{Rect: image.Rect(100, 100, 150, 130), Confidence: 0.6},
	}

	merged := mergeOverlappingRegions(regions)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 merged regions, got %d", len(merged))
	}
	if merged[0].Rect != image.Rect(10, 10, 70, 30) {
		t.Errorf("merged rect: got %v", merged[0].Rect)
	}
	if merged[0].Confidence != 0.8 {
		t.Errorf("merged confidence: got %.2f, want 0.8", merged[0].Confidence)
	}
}

func TestMergeOverlappingRegions_Touching(t *testing.T) {
	regions := []textRegion{
		{Rect: image.Rect(0, 0, 50, 50), Confidence: 0.8},
		{Rect: image.Rect(50, 0, 100, 50), Confidence: 0.7},
	}

	if merged := mergeOverlappingRegions(regions); len(merged) != 2 {
		t.Errorf("touching edges do not overlap, got %d regions", len(merged))
	}
}

func TestMergeOverlappingRegions_Empty(t *testing.T) {
	if merged := mergeOverlappingRegions(nil); len(merged) != 0 {
		t.Errorf("Expected 0 regions, got %d", len(merged))
	}
}
