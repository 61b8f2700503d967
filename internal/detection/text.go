package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// DefaultTextConfidence is the minimum score of a text window.
const DefaultTextConfidence = 0.5

// textWindows are the sliding window sizes in pixels.
var textWindows = []struct{ w, h int }{
	{100, 30},
	{150, 40},
	{200, 50},
	{80, 25},
}

// TextWindows proposes regions that look like lines of text.
//
// Text has a medium edge density (between 5% and 40%) and more horizontal
// edge runs than vertical ones. A window scores
// horizontalScore * (1 - |density-0.2|/0.2); windows below minConfidence are
// dropped and overlapping windows are fused.
func TextWindows(img image.Image, minConfidence float64) []model.Proposal {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	return textProposals(detectEdges(lumaGrid(img, 0)), b.Dx(), b.Dy(), minConfidence)
}

func textProposals(edges [][]bool, width, height int, minConfidence float64) []model.Proposal {
	candidates := make([]textRegion, 0)
	for _, ws := range textWindows {
		stepX := ws.w / 2
		stepY := ws.h / 2

		for y := 0; y <= height-ws.h; y += stepY {
			for x := 0; x <= width-ws.w; x += stepX {
				edgeCount := 0
				for wy := 0; wy < ws.h; wy++ {
					for wx := 0; wx < ws.w; wx++ {
						if edges[y+wy][x+wx] {
							edgeCount++
						}
					}
				}

				density := float64(edgeCount) / float64(ws.w*ws.h)
				if density < 0.05 || density > 0.4 {
					continue
				}
				horizontalScore := calculateHorizontalScore(edges, x, y, ws.w, ws.h)
				confidence := horizontalScore * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence >= minConfidence {
					candidates = append(candidates, textRegion{
						Rect:       image.Rect(x, y, x+ws.w, y+ws.h),
						Confidence: math.Round(confidence*1000) / 1000,
					})
				}
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	proposals := make([]model.Proposal, 0, len(merged))
	for _, r := range merged {
		proposals = append(proposals, model.Proposal{
			BBox:       model.FromRect(r.Rect, width, height),
			Confidence: r.Confidence,
		})
	}
	return proposals
}

// textRegion is a candidate text window in frame pixels.
type textRegion struct {
	Rect       image.Rectangle
	Confidence float64
}

// calculateHorizontalScore is the share of horizontal edge runs among all
// edge runs in the window.
func calculateHorizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions fuses each region into the first earlier region it
// overlaps, keeping the higher confidence.
func mergeOverlappingRegions(regions []textRegion) []textRegion {
	if len(regions) == 0 {
		return regions
	}

	merged := make([]textRegion, 0)
	for _, r := range regions {
		foundMerge := false
		for i := range merged {
			if r.Rect.Overlaps(merged[i].Rect) {
				merged[i].Rect = merged[i].Rect.Union(r.Rect)
				merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
		}
	}
	return merged
}
