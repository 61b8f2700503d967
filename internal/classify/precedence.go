package classify

import "github.com/ironsheep/ui-regression-mcp/internal/model"

// Precedence prefers the trained model in Store and otherwise delegates to
// Fallback. A nil Fallback means Heuristic.
type Precedence struct {
	Store    *Store
	Fallback Classifier
}

// Classify implements Classifier.
func (p Precedence) Classify(r *Region) (model.ElementType, float64) {
	if p.Store != nil {
		if m, err := p.Store.Model(); err == nil && m.Fitted() {
			return m.Classify(r)
		}
	}
	if p.Fallback != nil {
		return p.Fallback.Classify(r)
	}
	return Heuristic{}.Classify(r)
}

// Active names the variant Classify would use right now.
func (p Precedence) Active() string {
	if p.Store != nil && p.Store.Available() {
		return "trainable"
	}
	return "heuristic"
}
