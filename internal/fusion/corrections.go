package fusion

import (
	"math"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// shape describes a candidate's geometry on its frame.
type shape struct {
	aspect  float64
	absH    float64
	relArea float64
}

func shapeOf(b model.BoundingBox, width, height int) shape {
	return shape{
		aspect:  b.AspectRatio(width, height),
		absH:    b.H * float64(height),
		relArea: b.Area(),
	}
}

// correction reassigns a type when its predicate holds. Confidence becomes
// max(current, floor).
type correction struct {
	name  string
	when  func(t model.ElementType, s shape) bool
	to    model.ElementType
	floor float64
}

// corrections are applied in order; each sees the result of the previous.
var corrections = []correction{
	{
		name: "wide short button is an input",
		when: func(t model.ElementType, s shape) bool {
			return t == model.TypeButton && s.aspect > 5.0 && s.absH < 40
		},
		to:    model.TypeInput,
		floor: 0.75,
	},
	{
		name: "tiny square text is a button",
		when: func(t model.ElementType, s shape) bool {
			return (t == model.TypeLabel || t == model.TypeUnknown) &&
				s.aspect >= 0.7 && s.aspect <= 1.3 && s.relArea < 0.001
		},
		to:    model.TypeButton,
		floor: 0.70,
	},
}

// correct runs the correction table over one classified candidate.
func correct(t model.ElementType, conf float64, s shape) (model.ElementType, float64) {
	for _, c := range corrections {
		if c.when(t, s) {
			t = c.to
			conf = math.Max(conf, c.floor)
		}
	}
	return t, conf
}
