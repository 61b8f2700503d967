package fusion

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ui-regression-mcp/internal/classify"
	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

type fakeDetector struct {
	proposals []model.Proposal
	err       error
	calls     atomic.Int32
}

func (d *fakeDetector) Detect(_ context.Context, _ image.Image, threshold float64) ([]model.Proposal, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	var out []model.Proposal
	for _, p := range d.proposals {
		if p.Confidence >= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeReader struct{ text string }

func (r fakeReader) Text(image.Image) (string, error) { return r.text, nil }

func newFrame() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 1000))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fixedClassifier(t model.ElementType, conf float64) classify.Classifier {
	return classify.Func(func(*classify.Region) (model.ElementType, float64) { return t, conf })
}

func noHeuristics(image.Image) []model.Proposal { return nil }

// noRetry keeps the sparse low-threshold retry from running.
func noRetry() Options {
	opts := DefaultOptions()
	opts.PrimaryConfThreshold = minRetryThreshold
	return opts
}

func TestTypeForClass(t *testing.T) {
	tests := map[string]model.ElementType{
		"button":  model.TypeButton,
		"Input":   model.TypeInput,
		"text":    model.TypeLabel,
		" LABEL ": model.TypeLabel,
		"image":   model.TypeImage,
		"icon":    model.TypeImage,
		"link":    model.TypeLink,
		"slider":  model.TypeUnknown,
		"":        model.TypeUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, TypeForClass(in), "class %q", in)
	}
}

func TestDetectDeduplicates(t *testing.T) {
	primary := &fakeDetector{proposals: []model.Proposal{
		{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.1}, ClassName: "button", Confidence: 0.7},
		{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.09}, ClassName: "button", Confidence: 0.9},
	}}
	f := &Fuser{Primary: primary, Classifier: fixedClassifier(model.TypeUnknown, 0), Heuristics: noHeuristics}

	res, err := f.Detect(context.Background(), newFrame(), noRetry())
	require.NoError(t, err)
	require.Len(t, res.Elements, 1)

	el := res.Elements[0]
	assert.Equal(t, model.TypeButton, el.Type)
	assert.InDelta(t, 0.9, el.Confidence, 1e-9)
	assert.InDelta(t, 0.09, el.BBox.H, 1e-9)
	assert.Equal(t, "button #1", el.DisplayName)
	assert.Equal(t, 1, el.ID)
	assert.False(t, res.Degraded)
	assert.Equal(t, BackendCombined, res.Backend)
}

func TestDetectClassification(t *testing.T) {
	tests := []struct {
		name       string
		proposal   model.Proposal
		classifier classify.Classifier
		wantType   model.ElementType
		wantConf   float64
	}{
		{
			name:       "absent class is classified",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}, Confidence: 0.8},
			classifier: fixedClassifier(model.TypeImage, 0.6),
			wantType:   model.TypeImage,
			wantConf:   0.7,
		},
		{
			name:       "unknown class is classified",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}, ClassName: "slider", Confidence: 0.8},
			classifier: fixedClassifier(model.TypeLink, 0.9),
			wantType:   model.TypeLink,
			wantConf:   0.85,
		},
		{
			name:       "weaker classification is ignored",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}, ClassName: "image", Confidence: 0.3},
			classifier: fixedClassifier(model.TypeLink, 0.2),
			wantType:   model.TypeImage,
			wantConf:   0.3,
		},
		{
			name:       "confident class is kept",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}, ClassName: "image", Confidence: 0.6},
			classifier: fixedClassifier(model.TypeLink, 0.99),
			wantType:   model.TypeImage,
			wantConf:   0.6,
		},
		{
			name:       "wide short button becomes input",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.3, H: 0.03}, ClassName: "button", Confidence: 0.6},
			classifier: fixedClassifier(model.TypeUnknown, 0),
			wantType:   model.TypeInput,
			wantConf:   (0.6 + 0.75) / 2,
		},
		{
			name:       "tiny square label becomes button",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.5, Y: 0.5, W: 0.02, H: 0.02}, ClassName: "label", Confidence: 0.6},
			classifier: fixedClassifier(model.TypeUnknown, 0),
			wantType:   model.TypeButton,
			wantConf:   (0.6 + 0.7) / 2,
		},
		{
			name:       "tall button is left alone",
			proposal:   model.Proposal{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.3, H: 0.05}, ClassName: "button", Confidence: 0.6},
			classifier: fixedClassifier(model.TypeUnknown, 0),
			wantType:   model.TypeButton,
			wantConf:   0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Fuser{
				Primary:    &fakeDetector{proposals: []model.Proposal{tt.proposal}},
				Classifier: tt.classifier,
				Heuristics: noHeuristics,
			}
			res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
			require.NoError(t, err)
			require.Len(t, res.Elements, 1)
			assert.Equal(t, tt.wantType, res.Elements[0].Type)
			assert.InDelta(t, tt.wantConf, res.Elements[0].Confidence, 1e-9)
		})
	}
}

func TestCorrectionTable(t *testing.T) {
	typ, conf := correct(model.TypeButton, 0.9, shape{aspect: 8, absH: 30, relArea: 0.01})
	assert.Equal(t, model.TypeInput, typ)
	assert.InDelta(t, 0.9, conf, 1e-9)

	typ, conf = correct(model.TypeUnknown, 0.3, shape{aspect: 1, absH: 10, relArea: 0.0005})
	assert.Equal(t, model.TypeButton, typ)
	assert.InDelta(t, 0.7, conf, 1e-9)

	typ, conf = correct(model.TypeImage, 0.4, shape{aspect: 1, absH: 10, relArea: 0.0005})
	assert.Equal(t, model.TypeImage, typ)
	assert.InDelta(t, 0.4, conf, 1e-9)
}

func TestDetectPrimaryUnavailable(t *testing.T) {
	heuristic := []model.Proposal{{BBox: model.BoundingBox{X: 0.2, Y: 0.2, W: 0.1, H: 0.1}, Confidence: 0.5}}
	f := &Fuser{
		Primary:    detector.Unavailable{},
		Classifier: fixedClassifier(model.TypeImage, 0.9),
		Heuristics: func(image.Image) []model.Proposal { return heuristic },
	}

	res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, BackendHeuristic, res.Backend)
	require.Len(t, res.Elements, 1)
	assert.Equal(t, "image #1", res.Elements[0].DisplayName)
	assert.InDelta(t, 0.7, res.Elements[0].Confidence, 1e-9)
}

func TestDetectPrimaryFailure(t *testing.T) {
	f := &Fuser{
		Primary:    &fakeDetector{err: errors.New("connection reset")},
		Heuristics: noHeuristics,
	}

	res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Elements)
}

func TestDetectPrimaryDisabled(t *testing.T) {
	primary := &fakeDetector{}
	f := &Fuser{Primary: primary, Heuristics: noHeuristics}

	opts := DefaultOptions()
	opts.UsePrimary = false
	res, err := f.Detect(context.Background(), newFrame(), opts)
	require.NoError(t, err)

	assert.Zero(t, primary.calls.Load())
	assert.False(t, res.Degraded)
	assert.Equal(t, BackendHeuristic, res.Backend)
}

func TestDetectSparseRetry(t *testing.T) {
	primary := &fakeDetector{proposals: []model.Proposal{
		{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.1, H: 0.1}, ClassName: "button", Confidence: 0.9},
		{BBox: model.BoundingBox{X: 0.5, Y: 0.5, W: 0.1, H: 0.1}, ClassName: "link", Confidence: 0.12},
	}}
	f := &Fuser{Primary: primary, Classifier: fixedClassifier(model.TypeUnknown, 0), Heuristics: noHeuristics}

	res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, int32(2), primary.calls.Load())
	assert.Len(t, res.Elements, 2)
}

func TestDetectEnoughPrimary(t *testing.T) {
	var proposals []model.Proposal
	for i := 0; i < 12; i++ {
		proposals = append(proposals, model.Proposal{
			BBox:       model.BoundingBox{X: float64(i) * 0.08, Y: 0.1, W: 0.05, H: 0.05},
			ClassName:  "image",
			Confidence: 0.9,
		})
	}
	var heuristicCalls int
	f := &Fuser{
		Primary:    &fakeDetector{proposals: proposals},
		Heuristics: func(image.Image) []model.Proposal { heuristicCalls++; return nil },
	}

	res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, BackendPrimary, res.Backend)
	assert.Len(t, res.Elements, 12)
	assert.Zero(t, heuristicCalls)
	for i, el := range res.Elements {
		assert.Equal(t, i+1, el.ID)
		assert.True(t, el.BBox.Valid())
	}
}

func TestDetectExtractText(t *testing.T) {
	f := &Fuser{
		Primary:    &fakeDetector{proposals: []model.Proposal{{BBox: model.BoundingBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.05}, ClassName: "button", Confidence: 0.9}}},
		Reader:     fakeReader{text: "Sign in"},
		Heuristics: noHeuristics,
	}

	opts := DefaultOptions()
	opts.ExtractText = true
	res, err := f.Detect(context.Background(), newFrame(), opts)
	require.NoError(t, err)
	require.Len(t, res.Elements, 1)
	assert.Equal(t, "Sign in", res.Elements[0].Text)

	opts.ExtractText = false
	res, err = f.Detect(context.Background(), newFrame(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Elements[0].Text)
}

func TestDetectClampsBoxes(t *testing.T) {
	f := &Fuser{
		Primary:    &fakeDetector{proposals: []model.Proposal{{BBox: model.BoundingBox{X: 0.9, Y: -0.1, W: 0.3, H: 0.3}, ClassName: "image", Confidence: 0.9}}},
		Heuristics: noHeuristics,
	}

	res, err := f.Detect(context.Background(), newFrame(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Elements, 1)
	assert.True(t, res.Elements[0].BBox.Valid())
}

func TestDetectErrors(t *testing.T) {
	f := &Fuser{Heuristics: noHeuristics}

	_, err := f.Detect(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 5)), DefaultOptions())
	assert.ErrorIs(t, err, model.ErrInvalidGeometry)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Primary = &fakeDetector{err: context.Canceled}
	_, err = f.Detect(ctx, newFrame(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectHeuristicEndToEnd(t *testing.T) {
	frame := newFrame()
	black := color.NRGBA{0, 0, 0, 255}
	for x := 200; x <= 400; x++ {
		frame.SetNRGBA(x, 300, black)
		frame.SetNRGBA(x, 360, black)
	}
	for y := 300; y <= 360; y++ {
		frame.SetNRGBA(200, y, black)
		frame.SetNRGBA(400, y, black)
	}

	f := &Fuser{}
	opts := DefaultOptions()
	opts.UsePrimary = false
	res, err := f.Detect(context.Background(), frame, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Elements)

	for i, el := range res.Elements {
		assert.True(t, el.BBox.Valid())
		assert.GreaterOrEqual(t, el.Confidence, 0.0)
		assert.LessOrEqual(t, el.Confidence, 1.0)
		assert.Equal(t, model.DisplayName(el.Type, i+1), el.DisplayName)
	}
}
