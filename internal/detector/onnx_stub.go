//go:build !gocv

package detector

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// ONNXDetector is unavailable in builds without the gocv tag.
type ONNXDetector struct{}

// NewONNXDetector always fails without the gocv build tag.
func NewONNXDetector(cfg ONNXConfig) (*ONNXDetector, error) {
	return nil, fmt.Errorf("%w: built without gocv support", model.ErrDetectorUnavailable)
}

// Name implements Named.
func (d *ONNXDetector) Name() string { return "onnx" }

// Close does nothing.
func (d *ONNXDetector) Close() error { return nil }

// Detect implements Detector.
func (d *ONNXDetector) Detect(context.Context, image.Image, float64) ([]model.Proposal, error) {
	return nil, fmt.Errorf("%w: built without gocv support", model.ErrDetectorUnavailable)
}
