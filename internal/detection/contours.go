package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Contour filter parameters.
const (
	minRelativeArea = 0.00002
	maxRelativeArea = 0.18
	minSidePx       = 6
	maxSideShare    = 0.98
	minContourStd   = 12.0
)

// Contours proposes the bounding boxes of connected edge components.
//
// # Algorithm
//
//  1. Luma plane, Gaussian blur (sigma 1)
//  2. Gradient edges (luma step above 30 to the right or below)
//  3. Dilation (radius 1) so glyphs and outlines join into blobs
//  4. 8-connected components via flood fill
//  5. Filtering by box area, side length and luma spread of the region
//
// Surviving boxes score min(1, 0.4 + relativeArea*12) and are returned
// sorted by confidence, highest first.
func Contours(img image.Image) []model.Proposal {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	return contourProposals(lumaGrid(img, 0), lumaGrid(img, 1), width, height)
}

func contourProposals(luma, blurred [][]float64, width, height int) []model.Proposal {
	total := float64(width * height)
	minArea := math.Max(30, total*minRelativeArea)

	edges := dilateEdges(detectEdges(blurred), 1)
	proposals := make([]model.Proposal, 0)
	for _, contour := range findContours(edges) {
		r := boundsOf(contour)
		w, h := r.Dx(), r.Dy()
		area := float64(w * h)
		if area < minArea {
			continue
		}
		if w < minSidePx || h < minSidePx ||
			float64(w) > float64(width)*maxSideShare || float64(h) > float64(height)*maxSideShare {
			continue
		}
		rel := area / total
		if rel > maxRelativeArea {
			continue
		}
		if lumaStdDev(luma, r) < minContourStd {
			continue
		}
		proposals = append(proposals, model.Proposal{
			BBox:       model.FromRect(r, width, height),
			Confidence: math.Min(1, 0.4+rel*12),
		})
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Confidence > proposals[j].Confidence
	})
	return proposals
}
