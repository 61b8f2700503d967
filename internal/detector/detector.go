package detector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// Detector finds candidate UI elements on a frame.
//
// Proposals with confidence below confThreshold are dropped. Returned boxes
// are clamped to the unit square.
type Detector interface {
	Detect(ctx context.Context, img image.Image, confThreshold float64) ([]model.Proposal, error)
}

// Named is implemented by detectors that can report which backend they are.
type Named interface {
	Name() string
}

// NameOf returns the backend name of d, or "none" for a nil detector.
func NameOf(d Detector) string {
	if d == nil {
		return "none"
	}
	if n, ok := d.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", d)
}

// Unavailable is a Detector that never works.
type Unavailable struct {
	Reason string
}

// Detect always returns an error matching model.ErrDetectorUnavailable.
func (u Unavailable) Detect(context.Context, image.Image, float64) ([]model.Proposal, error) {
	if u.Reason == "" {
		return nil, model.ErrDetectorUnavailable
	}
	return nil, fmt.Errorf("%w: %s", model.ErrDetectorUnavailable, u.Reason)
}

// Name implements Named.
func (Unavailable) Name() string { return "unavailable" }

// DefaultRetryAfter is how long Cached waits before retrying a failed
// initialisation.
const DefaultRetryAfter = 30 * time.Second

// Cached initialises a backend on first use.
//
// A successful constructor runs exactly once even under concurrent callers.
// A failure is remembered and returned, wrapped in model.ErrDetectorUnavailable,
// until RetryAfter has passed; the next call after that runs the constructor
// again. A RetryAfter of zero or less makes the first failure permanent.
type Cached struct {
	name string
	init func() (Detector, error)

	// RetryAfter must be set before first use.
	RetryAfter time.Duration

	now func() time.Time

	mu       sync.Mutex
	ready    bool
	d        Detector
	err      error
	failedAt time.Time
}

// NewCached returns a lazily initialised detector that retries failures after
// DefaultRetryAfter.
func NewCached(name string, init func() (Detector, error)) *Cached {
	return &Cached{name: name, init: init, RetryAfter: DefaultRetryAfter, now: time.Now}
}

// load returns the backend or the current initialisation failure.
func (c *Cached) load() (Detector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return c.d, nil
	}
	if c.err != nil && (c.RetryAfter <= 0 || c.now().Sub(c.failedAt) < c.RetryAfter) {
		return nil, c.err
	}

	d, err := c.init()
	if err == nil && d == nil {
		err = model.ErrDetectorUnavailable
	}
	if err != nil {
		if !errors.Is(err, model.ErrDetectorUnavailable) {
			err = fmt.Errorf("%w: %v", model.ErrDetectorUnavailable, err)
		}
		log.Printf("Primary detector %s unavailable: %v", c.name, err)
		c.err = err
		c.failedAt = c.now()
		return nil, err
	}
	log.Printf("Primary detector %s ready", c.name)
	c.ready, c.d, c.err = true, d, nil
	return d, nil
}

// Available initialises the backend if needed and reports whether it works.
func (c *Cached) Available() bool {
	_, err := c.load()
	return err == nil
}

// Err returns the initialisation failure, if any.
func (c *Cached) Err() error {
	_, err := c.load()
	return err
}

// Name implements Named.
func (c *Cached) Name() string { return c.name }

// Detect implements Detector.
func (c *Cached) Detect(ctx context.Context, img image.Image, confThreshold float64) ([]model.Proposal, error) {
	d, err := c.load()
	if err != nil {
		return nil, err
	}
	return d.Detect(ctx, img, confThreshold)
}

// filterProposals clamps boxes and drops proposals under the threshold or
// without area.
func filterProposals(in []model.Proposal, confThreshold float64) []model.Proposal {
	out := make([]model.Proposal, 0, len(in))
	for _, p := range in {
		if p.Confidence < confThreshold {
			continue
		}
		p.BBox = p.BBox.Clamp()
		if p.BBox.W <= 0 || p.BBox.H <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Config selects the primary backend.
type Config struct {
	// InferenceURL enables the HTTP backend when set.
	InferenceURL string
	// ONNX is used when InferenceURL is empty and ONNX.ModelPath is set.
	ONNX ONNXConfig
	// HealthTimeout bounds the HTTP health probe run at initialisation.
	HealthTimeout time.Duration
}

// New returns a lazily initialised primary detector for cfg. With neither
// backend configured the result is permanently unavailable; a configured
// backend that fails to start is retried after DefaultRetryAfter.
func New(cfg Config) *Cached {
	switch {
	case cfg.InferenceURL != "":
		return NewCached("http", func() (Detector, error) {
			d := NewHTTPDetector(cfg.InferenceURL)
			timeout := cfg.HealthTimeout
			if timeout <= 0 {
				timeout = 5 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				return nil, err
			}
			return d, nil
		})
	case cfg.ONNX.ModelPath != "":
		return NewCached("onnx", func() (Detector, error) {
			return NewONNXDetector(cfg.ONNX)
		})
	default:
		c := NewCached("none", func() (Detector, error) {
			return nil, fmt.Errorf("%w: no primary detector configured", model.ErrDetectorUnavailable)
		})
		c.RetryAfter = 0
		return c
	}
}
