package engine

import (
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/ui-regression-mcp/internal/classify"
	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Example is one labelled element on a screenshot.
type Example struct {
	Frame image.Image
	BBox  model.BoundingBox
	Type  model.ElementType
}

// Sample extracts the feature vector of ex.
func (ex Example) Sample() (classify.Sample, error) {
	if err := imgutil.CheckGeometry(ex.Frame); err != nil {
		return classify.Sample{}, err
	}
	region, err := classify.NewRegion(ex.Frame, ex.BBox.Clamp())
	if err != nil {
		return classify.Sample{}, err
	}
	return classify.Sample{Type: ex.Type, Features: classify.Features(region)}, nil
}

// Train fits a new classifier from examples and makes it current. The model
// is persisted when the store has a path.
func (e *Engine) Train(examples []Example) (*classify.TrainReport, error) {
	samples := make([]classify.Sample, 0, len(examples))
	for i, ex := range examples {
		s, err := ex.Sample()
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		samples = append(samples, s)
	}
	return e.TrainSamples(samples)
}

// TrainSamples fits a new classifier from precomputed feature vectors.
func (e *Engine) TrainSamples(samples []classify.Sample) (*classify.TrainReport, error) {
	m, report, err := classify.Fit(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	if err := e.models.Replace(m); err != nil {
		return nil, fmt.Errorf("failed to store classifier: %w", err)
	}
	log.Printf("Trained classifier on %d samples (accuracy %.2f)", report.Samples, report.Accuracy)
	return report, nil
}
