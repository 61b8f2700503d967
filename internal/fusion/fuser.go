package fusion

import (
	"context"
	"errors"
	"image"
	"log"
	"math"

	"github.com/ironsheep/ui-regression-mcp/internal/classify"
	"github.com/ironsheep/ui-regression-mcp/internal/detection"
	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
	"github.com/ironsheep/ui-regression-mcp/internal/ocr"
)

// Defaults for Options.
const (
	DefaultPrimaryConfThreshold = 0.15
	DefaultDedupeIoU            = 0.6

	// confidentClass is the class confidence below which a proposal is
	// re-classified from pixels.
	confidentClass = 0.5
	// minRetryThreshold bounds the lowered threshold of the sparse retry.
	minRetryThreshold = 0.05
)

// Backend names reported in Result.
const (
	BackendPrimary   = "primary"
	BackendHeuristic = "heuristic"
	BackendCombined  = "primary+heuristic"
)

// Options control one Detect call.
type Options struct {
	UsePrimary           bool    `json:"use_primary"`
	PrimaryConfThreshold float64 `json:"primary_conf_threshold"`
	DedupeIoU            float64 `json:"dedupe_iou"`
	ExtractText          bool    `json:"extract_text"`
}

// DefaultOptions enables the primary detector with the standard thresholds.
func DefaultOptions() Options {
	return Options{
		UsePrimary:           true,
		PrimaryConfThreshold: DefaultPrimaryConfThreshold,
		DedupeIoU:            DefaultDedupeIoU,
	}
}

func (o Options) withDefaults() Options {
	if o.PrimaryConfThreshold <= 0 {
		o.PrimaryConfThreshold = DefaultPrimaryConfThreshold
	}
	if o.DedupeIoU <= 0 {
		o.DedupeIoU = DefaultDedupeIoU
	}
	return o
}

// Result is the outcome of Detect.
type Result struct {
	Elements []model.UIElement `json:"elements"`
	// Degraded is set when the primary detector was requested but could not
	// be used.
	Degraded bool   `json:"degraded"`
	Backend  string `json:"backend"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Fuser detects UI elements. The zero value uses the heuristic proposal
// sources and the heuristic classifier only.
type Fuser struct {
	// Primary is the primary detector; nil behaves as unavailable.
	Primary detector.Detector
	// Classifier types proposals without a confident class.
	Classifier classify.Classifier
	// Reader extracts element text when Options.ExtractText is set.
	Reader ocr.Reader
	// Heuristics produces fallback proposals; nil means detection.Propose.
	Heuristics func(image.Image) []model.Proposal
}

// candidate is a proposal on its way to becoming an element.
type candidate struct {
	bbox       model.BoundingBox
	objectness float64
	typ        model.ElementType
	typeConf   float64
	hasClass   bool
}

// Detect finds the UI elements on img.
//
// Errors are returned only for degenerate input or a cancelled context.
func (f *Fuser) Detect(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := imgutil.CheckGeometry(img); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	frame := imgutil.ToNRGBA(img)
	width, height := frame.Bounds().Dx(), frame.Bounds().Dy()

	proposals, backend, degraded, err := f.propose(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	proposals = detection.Dedupe(proposals, opts.DedupeIoU)

	classifier := f.Classifier
	if classifier == nil {
		classifier = classify.Heuristic{}
	}

	elements := make([]model.UIElement, 0, len(proposals))
	for _, p := range proposals {
		c := candidate{bbox: p.BBox.Clamp(), objectness: p.Confidence, typ: model.TypeUnknown}
		if p.ClassName != "" {
			c.hasClass = true
			c.typ = TypeForClass(p.ClassName)
			c.typeConf = p.Confidence
		}

		if !c.hasClass || c.typ == model.TypeUnknown || c.typeConf < confidentClass {
			if region, err := classify.NewRegion(frame, c.bbox); err == nil {
				if t, conf := classifier.Classify(region); conf > c.typeConf {
					c.typ, c.typeConf = t, conf
				}
			}
		}

		c.typ, c.typeConf = correct(c.typ, c.typeConf, shapeOf(c.bbox, width, height))

		n := len(elements) + 1
		el := model.UIElement{
			ID:          n,
			BBox:        c.bbox,
			Type:        c.typ,
			Confidence:  clampUnit((c.objectness + c.typeConf) / 2),
			DisplayName: model.DisplayName(c.typ, n),
		}
		if opts.ExtractText && f.Reader != nil {
			el.Text = ocr.ElementText(f.Reader, frame, c.bbox.ToRect(width, height))
		}
		elements = append(elements, el)
	}

	return &Result{
		Elements: elements,
		Degraded: degraded,
		Backend:  backend,
		Width:    width,
		Height:   height,
	}, nil
}

// propose gathers proposals from the primary detector and, when needed, the
// heuristic sources.
func (f *Fuser) propose(ctx context.Context, frame image.Image, opts Options) ([]model.Proposal, string, bool, error) {
	heuristics := f.Heuristics
	if heuristics == nil {
		heuristics = detection.Propose
	}

	if !opts.UsePrimary {
		return heuristics(frame), BackendHeuristic, false, nil
	}
	if f.Primary == nil {
		log.Printf("Primary detector not configured, using heuristic detection")
		return heuristics(frame), BackendHeuristic, true, nil
	}

	primary, err := f.Primary.Detect(ctx, frame, opts.PrimaryConfThreshold)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", false, ctxErr
		}
		if errors.Is(err, model.ErrDetectorUnavailable) {
			log.Printf("Primary detector unavailable, using heuristic detection: %v", err)
		} else {
			log.Printf("Primary detector failed, using heuristic detection: %v", err)
		}
		return heuristics(frame), BackendHeuristic, true, nil
	}

	if len(primary) < detection.MinElementsTarget {
		retry := math.Max(minRetryThreshold, opts.PrimaryConfThreshold*0.6)
		if retry < opts.PrimaryConfThreshold {
			if low, err := f.Primary.Detect(ctx, frame, retry); err == nil {
				primary = detection.Combine(primary, low)
			} else if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, "", false, ctxErr
			}
		}
	}
	if len(primary) >= detection.MinElementsTarget {
		return primary, BackendPrimary, false, nil
	}

	log.Printf("Primary detector found %d elements, combining with heuristic detection", len(primary))
	return detection.Combine(primary, heuristics(frame)), BackendCombined, false, nil
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
