package detection

import (
	"image"
	"log"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// MinElementsTarget is the proposal count below which more sources are
// consulted.
const MinElementsTarget = 12

// Propose runs every heuristic source over img and returns the combined
// proposals. The result is empty only for a zero-area frame.
func Propose(img image.Image) []model.Proposal {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	luma := lumaGrid(img, 0)
	blurred := lumaGrid(img, 1)

	proposals := contourProposals(luma, blurred, width, height)
	proposals = append(proposals, textProposals(detectEdges(luma), width, height, DefaultTextConfidence)...)
	proposals = MergeOverlapping(Dedupe(proposals, DuplicateIoU))

	if len(proposals) < MinElementsTarget {
		log.Printf("Using grid fallback detection (current=%d)", len(proposals))
		proposals = Combine(proposals, gridProposals(luma, width, height))
	}
	return proposals
}
