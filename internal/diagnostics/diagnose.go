package diagnostics

import (
	"image"
	"math"
	"sort"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Pair is the aligned image pair a mask was computed from.
//
// Reference and Aligned are optional; without them the shift search cannot run
// and the ambiguous tier resolves to changed.
type Pair struct {
	Mask      *model.DiffMask
	Reference *image.NRGBA
	Aligned   *image.NRGBA
	// Tolerance is the per-pixel color distance used to build Mask.
	Tolerance float64
}

// candidate is one element being graded.
type candidate struct {
	rect  image.Rectangle
	ratio float64
	pair  Pair
	th    Thresholds
}

// verdict is the outcome of a tier.
type verdict struct {
	status  model.Status
	shiftPx *int
}

// tier is one row of the grading table.
type tier struct {
	name    string
	applies func(c *candidate) bool
	decide  func(c *candidate) verdict
}

// tiers is evaluated top to bottom; the first row that applies wins.
var tiers = []tier{
	{
		name:    "missing",
		applies: func(c *candidate) bool { return c.ratio >= c.th.Missing },
		decide:  fixed(model.StatusMissing),
	},
	{
		name:    "changed",
		applies: func(c *candidate) bool { return c.ratio >= c.th.Changed },
		decide:  fixed(model.StatusChanged),
	},
	{
		name:    "ambiguous",
		applies: func(c *candidate) bool { return c.ratio >= c.th.MinRatio },
		decide:  searchShift,
	},
	{
		name:    "matched",
		applies: func(*candidate) bool { return true },
		decide:  fixed(model.StatusMatched),
	},
}

func fixed(s model.Status) func(*candidate) verdict {
	return func(*candidate) verdict { return verdict{status: s} }
}

// Diagnose grades every element against the mask, in element order.
//
// Element boxes are converted to pixels on the mask geometry. A nil mask
// yields no diagnostics.
func Diagnose(elements []model.UIElement, pair Pair, th Thresholds) []model.ElementDiagnostic {
	if pair.Mask == nil {
		return nil
	}
	out := make([]model.ElementDiagnostic, 0, len(elements))
	for _, el := range elements {
		c := &candidate{
			rect: el.BBox.Clamp().ToRect(pair.Mask.Width, pair.Mask.Height),
			pair: pair,
			th:   th,
		}
		c.ratio = pair.Mask.RatioIn(c.rect)

		v := grade(c)
		out = append(out, model.ElementDiagnostic{
			ElementID: el.ID,
			Name:      el.DisplayName,
			Type:      el.Type,
			BBox:      el.BBox,
			Status:    v.status,
			DiffRatio: c.ratio,
			ShiftPx:   v.shiftPx,
		})
	}
	return out
}

func grade(c *candidate) verdict {
	for _, t := range tiers {
		if t.applies(c) {
			return t.decide(c)
		}
	}
	return verdict{status: model.StatusMatched}
}

// searchShift looks for the reference content of the element at a nearby
// offset in the aligned image. The element is shifted when some offset
// reproduces it with less disagreement than both the noise floor and the
// unshifted diff ratio; otherwise it is changed.
func searchShift(c *candidate) verdict {
	changed := verdict{status: model.StatusChanged}
	if c.pair.Reference == nil || c.pair.Aligned == nil || c.th.MaxShiftPx <= 0 {
		return changed
	}
	best, ratio, ok := BestShift(c.pair.Reference, c.pair.Aligned, c.rect, c.th.MaxShiftPx, c.pair.Tolerance)
	if !ok || ratio >= c.th.MinRatio || ratio >= c.ratio {
		return changed
	}
	px := int(math.Round(best.Length()))
	return verdict{status: model.StatusShifted, shiftPx: &px}
}

// BestShift finds the non-zero offset within radius (Chebyshev distance) that
// best maps the ref pixels inside r onto act.
//
// The best offset has the lowest mismatch ratio; ties go to the smaller
// displacement. ok is false when r is empty or radius is not positive.
func BestShift(ref, act *image.NRGBA, r image.Rectangle, radius int, tolerance float64) (best imgutil.Offset, ratio float64, ok bool) {
	r = r.Intersect(ref.Bounds())
	area := r.Dx() * r.Dy()
	if area == 0 || radius <= 0 {
		return imgutil.Offset{}, 0, false
	}

	bestCount := area + 1
	for _, off := range searchOrder(radius) {
		n := imgutil.CountMismatch(ref, act, r, off, tolerance, bestCount)
		if n < bestCount {
			bestCount = n
			best = off
			if n == 0 {
				break
			}
		}
	}
	return best, float64(bestCount) / float64(area), true
}

// searchOrder lists every non-zero offset in the square of the given radius,
// nearest first, so that the first minimum found is also the smallest move.
func searchOrder(radius int) []imgutil.Offset {
	offsets := make([]imgutil.Offset, 0, (2*radius+1)*(2*radius+1)-1)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, imgutil.Offset{DX: dx, DY: dy})
		}
	}
	sort.SliceStable(offsets, func(i, j int) bool {
		a, b := offsets[i], offsets[j]
		return a.DX*a.DX+a.DY*a.DY < b.DX*b.DX+b.DY*b.DY
	})
	return offsets
}
