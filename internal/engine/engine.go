package engine

import (
	"context"
	"image"

	"github.com/ironsheep/ui-regression-mcp/internal/classify"
	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	"github.com/ironsheep/ui-regression-mcp/internal/diagnostics"
	"github.com/ironsheep/ui-regression-mcp/internal/fusion"
	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
	"github.com/ironsheep/ui-regression-mcp/internal/ocr"
	"github.com/ironsheep/ui-regression-mcp/internal/policy"
	"github.com/ironsheep/ui-regression-mcp/internal/similarity"
)

// Config wires the process-wide collaborators. Every field is optional.
type Config struct {
	// Primary is the primary detector; nil runs heuristics only.
	Primary detector.Detector
	// Models holds the trained classifier; nil keeps an in-memory store.
	Models *classify.Store
	// Reader extracts element text; nil disables text extraction.
	Reader ocr.Reader
}

// Engine is safe for concurrent use.
type Engine struct {
	primary    detector.Detector
	models     *classify.Store
	classifier classify.Precedence
	fuser      *fusion.Fuser
	reader     ocr.Reader
}

// New builds an engine from cfg.
func New(cfg Config) *Engine {
	models := cfg.Models
	if models == nil {
		models = classify.NewStore("")
	}
	e := &Engine{
		primary:    cfg.Primary,
		models:     models,
		classifier: classify.Precedence{Store: models},
		reader:     cfg.Reader,
	}
	e.fuser = &fusion.Fuser{
		Primary:    cfg.Primary,
		Classifier: e.classifier,
		Reader:     cfg.Reader,
	}
	return e
}

// Detect decodes data and finds its UI elements.
func (e *Engine) Detect(ctx context.Context, data []byte, opts Options) (*fusion.Result, error) {
	img, err := imgutil.Decode(data, "")
	if err != nil {
		return nil, err
	}
	return e.DetectImage(ctx, img, opts)
}

// DetectImage finds the UI elements of an already decoded image.
func (e *Engine) DetectImage(ctx context.Context, img image.Image, opts Options) (*fusion.Result, error) {
	return e.fuser.Detect(ctx, img, opts.withDefaults().fusion())
}

// Compare decodes both screenshots and compares them.
func (e *Engine) Compare(ctx context.Context, reference, actual []byte, elements []model.UIElement, opts Options) (*model.ComparisonResult, error) {
	ref, err := imgutil.Decode(reference, "reference")
	if err != nil {
		return nil, err
	}
	act, err := imgutil.Decode(actual, "actual")
	if err != nil {
		return nil, err
	}
	return e.CompareImages(ctx, ref, act, elements, opts)
}

// CompareImages aligns actual to reference, grades every element and applies
// the defect policy. With FeatureAlign set, feature registration is tried
// before the resize.
//
// The elements are the ones detected on the reference. The context is checked
// between stages only; the stages themselves run to completion.
func (e *Engine) CompareImages(ctx context.Context, reference, actual image.Image, elements []model.UIElement, opts Options) (*model.ComparisonResult, error) {
	opts = opts.withDefaults()

	sim, err := similarity.CompareWith(reference, actual, similarity.Settings{
		DiffThreshold: opts.DiffThreshold,
		Register:      opts.FeatureAlign,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pair := diagnostics.Pair{
		Mask:      sim.Mask,
		Reference: sim.Reference,
		Aligned:   sim.Aligned,
		Tolerance: opts.DiffThreshold,
	}
	diags := diagnostics.Diagnose(elements, pair, opts.diagnostics())
	mismatch := sim.MismatchRatio()
	defect := policy.Evaluate(sim.SSIM, mismatch, opts.policy())

	if diags == nil {
		diags = []model.ElementDiagnostic{}
	}
	return &model.ComparisonResult{
		SSIMScore:       sim.SSIM,
		MismatchRatio:   mismatch,
		CoveragePercent: diagnostics.Coverage(diags),
		Stats:           diagnostics.Summarize(diags),
		Diagnostics:     diags,
		Defect:          defect,
		Passed:          defect == nil,
		Width:           sim.Mask.Width,
		Height:          sim.Mask.Height,
		Registered:      sim.Registered,
	}, nil
}

// Evaluate applies the defect policy to precomputed scores.
func (e *Engine) Evaluate(ssim, mismatchRatio float64, opts Options) *model.Defect {
	return policy.Evaluate(ssim, mismatchRatio, opts.withDefaults().policy())
}

// Classify types the region bbox of img with the active classifier.
func (e *Engine) Classify(img image.Image, bbox model.BoundingBox) (model.ElementType, float64, error) {
	if err := imgutil.CheckGeometry(img); err != nil {
		return model.TypeUnknown, 0, err
	}
	region, err := classify.NewRegion(img, bbox.Clamp())
	if err != nil {
		return model.TypeUnknown, 0, err
	}
	t, conf := e.classifier.Classify(region)
	return t, conf, nil
}
