package classify

import (
	"math"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// features are the inputs of the heuristic rule table.
type features struct {
	aspect      float64
	relArea     float64
	height      int
	frameHeight int
	brightness  float64
	contrast    float64
	edgeDensity float64
	border      bool
}

func (f features) small() bool     { return f.relArea < 0.001 }
func (f features) verySmall() bool { return f.relArea < 0.0001 }
func (f features) compact() bool   { return f.aspect >= 0.8 && f.aspect <= 1.2 }

// rule returns ok=false when it does not decide the region.
type rule struct {
	name   string
	decide func(f features) (model.ElementType, float64, bool)
}

// heuristicRules are evaluated in order; the first deciding rule wins.
var heuristicRules = []rule{
	{"small control", func(f features) (model.ElementType, float64, bool) {
		if !f.verySmall() && !(f.small() && f.compact()) {
			return "", 0, false
		}
		switch {
		case f.border || f.edgeDensity > 0.15:
			return model.TypeButton, 0.85, true
		case f.contrast > 40:
			return model.TypeButton, 0.75, true
		}
		return "", 0, false
	}},
	{"text field", func(f features) (model.ElementType, float64, bool) {
		if f.aspect <= 2.5 || float64(f.height) >= float64(f.frameHeight)*0.06 {
			return "", 0, false
		}
		switch {
		case f.brightness > 220:
			return model.TypeInput, 0.9, true
		case f.brightness > 200 && f.contrast < 30:
			return model.TypeInput, 0.8, true
		}
		return "", 0, false
	}},
	{"button", func(f features) (model.ElementType, float64, bool) {
		if f.aspect < 0.4 || f.aspect > 4.0 || f.relArea < 0.0005 || f.relArea > 0.15 {
			return "", 0, false
		}
		score := buttonScore(f)
		if score >= 0.5 {
			return model.TypeButton, math.Min(0.9, 0.5+score*0.4), true
		}
		if f.aspect < 3.0 {
			switch {
			case f.contrast > 30 && (f.border || f.edgeDensity > 0.1):
				return model.TypeButton, 0.75, true
			case f.contrast > 25:
				return model.TypeButton, 0.65, true
			}
		}
		return "", 0, false
	}},
	{"label", func(f features) (model.ElementType, float64, bool) {
		if f.aspect <= 1.5 {
			return "", 0, false
		}
		if !f.border && f.contrast < 35 {
			score := 0.0
			if f.contrast < 25 {
				score += 0.4
			}
			if f.edgeDensity < 0.08 {
				score += 0.3
			}
			if score >= 0.5 {
				return model.TypeLabel, math.Min(0.9, 0.5+score*0.4), true
			}
		}
		switch {
		case f.aspect > 2.5 && !f.border && f.contrast < 35:
			return model.TypeLabel, 0.8, true
		case f.aspect > 1.8 && f.contrast < 30:
			return model.TypeLabel, 0.75, true
		}
		return "", 0, false
	}},
	{"image", func(f features) (model.ElementType, float64, bool) {
		if f.aspect < 0.6 || f.aspect > 1.4 || f.relArea <= 0.03 {
			return "", 0, false
		}
		switch {
		case f.contrast > 50:
			return model.TypeImage, 0.8, true
		case f.relArea > 0.1:
			return model.TypeImage, 0.7, true
		}
		return "", 0, false
	}},
	{"link", func(f features) (model.ElementType, float64, bool) {
		if f.aspect > 2.5 && f.relArea < 0.005 && f.contrast < 25 {
			return model.TypeLink, 0.6, true
		}
		return "", 0, false
	}},
	{"small framed", func(f features) (model.ElementType, float64, bool) {
		if f.small() && f.border {
			return model.TypeButton, 0.6, true
		}
		return "", 0, false
	}},
	{"text-like", func(f features) (model.ElementType, float64, bool) {
		if f.aspect <= 1.5 || f.border || f.contrast >= 40 {
			return "", 0, false
		}
		switch {
		case f.edgeDensity < 0.12:
			return model.TypeLabel, 0.65, true
		case f.aspect > 2.0 && f.contrast < 35:
			return model.TypeLabel, 0.7, true
		}
		return "", 0, false
	}},
}

// buttonScore adds up evidence for a clickable control. Flat, unframed
// regions are pushed towards labels.
func buttonScore(f features) float64 {
	score := 0.0
	if f.border {
		score += 0.35
	}
	switch {
	case f.contrast > 40:
		score += 0.25
	case f.contrast > 30:
		score += 0.15
	}
	switch {
	case f.edgeDensity > 0.15:
		score += 0.25
	case f.edgeDensity > 0.10:
		score += 0.15
	}
	if !f.border && f.contrast < 25 {
		score -= 0.4
	}
	return score
}

// Heuristic classifies regions with a fixed rule table.
type Heuristic struct{}

// Classify implements Classifier. Regions no rule claims are unknown with
// confidence 0.3.
func (Heuristic) Classify(r *Region) (model.ElementType, float64) {
	if r == nil || r.Rect.Empty() {
		return model.TypeUnknown, 0
	}
	s := r.Stats()
	f := features{
		aspect:      r.AspectRatio(),
		relArea:     r.RelativeArea(),
		height:      r.Rect.Dy(),
		frameHeight: r.FrameHeight,
		brightness:  s.MeanBrightness,
		contrast:    s.Contrast,
		edgeDensity: s.EdgeDensity,
		border:      s.HasBorder(),
	}
	for _, rl := range heuristicRules {
		if t, conf, ok := rl.decide(f); ok {
			return t, conf
		}
	}
	return model.TypeUnknown, 0.3
}
