package engine

import (
	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	"github.com/ironsheep/ui-regression-mcp/internal/ocr"
	"github.com/ironsheep/ui-regression-mcp/internal/similarity"
)

// Status describes which backends the engine can use right now.
type Status struct {
	PrimaryDetector  string `json:"primary_detector"`
	PrimaryAvailable bool   `json:"primary_available"`
	PrimaryError     string `json:"primary_error,omitempty"`
	Classifier       string `json:"classifier"`
	ClassifierPath   string `json:"classifier_path,omitempty"`
	OCRBuiltIn       bool   `json:"ocr_built_in"`
	OCREnabled       bool   `json:"ocr_enabled"`
	FeatureAlignment bool   `json:"feature_alignment"`
}

// Status reports the backend state. Asking about a lazily initialised
// primary detector triggers its initialisation.
func (e *Engine) Status() Status {
	s := Status{
		PrimaryDetector:  "none",
		Classifier:       e.classifier.Active(),
		ClassifierPath:   e.models.Path(),
		OCRBuiltIn:       ocr.BuiltIn,
		OCREnabled:       e.reader != nil,
		FeatureAlignment: similarity.RegistrationAvailable,
	}
	if e.primary == nil {
		return s
	}
	s.PrimaryDetector = detector.NameOf(e.primary)
	if c, ok := e.primary.(*detector.Cached); ok {
		s.PrimaryAvailable = c.Available()
		if err := c.Err(); err != nil {
			s.PrimaryError = err.Error()
		}
		return s
	}
	if _, ok := e.primary.(detector.Unavailable); !ok {
		s.PrimaryAvailable = true
	}
	return s
}
