package detection

import (
	"sort"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Overlap limits used when combining proposal sets.
const (
	DuplicateIoU     = 0.35
	MergeIoU         = 0.6
	MergeContainment = 0.8
)

// Dedupe keeps proposals in descending confidence order and drops any whose
// IoU with an already kept one exceeds iou. The input is not modified.
func Dedupe(proposals []model.Proposal, iou float64) []model.Proposal {
	if len(proposals) == 0 {
		return nil
	}
	sorted := append([]model.Proposal(nil), proposals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]model.Proposal, 0, len(sorted))
	for _, p := range sorted {
		duplicate := false
		for _, k := range kept {
			if p.BBox.IoU(k.BBox) > iou {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, p)
		}
	}
	return kept
}

// MergeOverlapping fuses proposals whose IoU exceeds MergeIoU or whose
// intersection covers more than MergeContainment of the smaller box. The fused
// box is the union with the higher confidence; the class name of the more
// confident side is kept. Passes repeat until nothing changes.
func MergeOverlapping(proposals []model.Proposal) []model.Proposal {
	if len(proposals) < 2 {
		return proposals
	}

	merged := append([]model.Proposal(nil), proposals...)
	for changed := true; changed; {
		changed = false
		result := make([]model.Proposal, 0, len(merged))
		skip := make([]bool, len(merged))
		for i := range merged {
			if skip[i] {
				continue
			}
			base := merged[i]
			for j := i + 1; j < len(merged); j++ {
				if skip[j] {
					continue
				}
				other := merged[j]
				if base.BBox.IoU(other.BBox) <= MergeIoU && base.BBox.Containment(other.BBox) <= MergeContainment {
					continue
				}
				if other.Confidence > base.Confidence {
					base.ClassName = other.ClassName
					base.Confidence = other.Confidence
				}
				base.BBox = base.BBox.Union(other.BBox)
				skip[j] = true
				changed = true
			}
			result = append(result, base)
		}
		merged = result
	}
	return merged
}

// Combine dedupes and merges base together with extra.
func Combine(base, extra []model.Proposal) []model.Proposal {
	if len(extra) == 0 {
		return base
	}
	all := make([]model.Proposal, 0, len(base)+len(extra))
	all = append(all, base...)
	all = append(all, extra...)
	return MergeOverlapping(Dedupe(all, DuplicateIoU))
}
