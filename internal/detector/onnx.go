//go:build gocv

package detector

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// ONNXDetector runs a YOLOv8 ONNX export with the OpenCV DNN module.
//
// The network output is [1, 4+classes, anchors] with boxes as centre x,
// centre y, width and height in network input pixels.
type ONNXDetector struct {
	cfg ONNXConfig

	mu  sync.Mutex
	net gocv.Net
}

// NewONNXDetector loads the model at cfg.ModelPath.
func NewONNXDetector(cfg ONNXConfig) (*ONNXDetector, error) {
	cfg = cfg.withDefaults()
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: no ONNX model configured", model.ErrDetectorUnavailable)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDetectorUnavailable, err)
	}
	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to read ONNX model %s", model.ErrDetectorUnavailable, cfg.ModelPath)
	}
	return &ONNXDetector{cfg: cfg, net: net}, nil
}

// Name implements Named.
func (d *ONNXDetector) Name() string { return "onnx" }

// Close releases the network.
func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Detect implements Detector. The context is checked before inference only.
func (d *ONNXDetector) Detect(ctx context.Context, img image.Image, confThreshold float64) ([]model.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, &model.InvalidGeometryError{Width: w, Height: h}
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	size := d.cfg.InputSize
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, anchors := dims[1], dims[2]
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	sx := float64(w) / float64(size)
	sy := float64(h) / float64(size)
	var (
		rects   []image.Rectangle
		scores  []float32
		classes []int
	)
	for i := 0; i < anchors; i++ {
		best, bestScore := 0, float32(0)
		for c := 4; c < rows; c++ {
			if s := data[c*anchors+i]; s > bestScore {
				best, bestScore = c-4, s
			}
		}
		if float64(bestScore) < confThreshold {
			continue
		}
		cx := float64(data[i]) * sx
		cy := float64(data[anchors+i]) * sy
		bw := float64(data[2*anchors+i]) * sx
		bh := float64(data[3*anchors+i]) * sy
		rects = append(rects, image.Rect(int(cx-bw/2), int(cy-bh/2), int(cx+bw/2), int(cy+bh/2)))
		scores = append(scores, bestScore)
		classes = append(classes, best)
	}
	if len(rects) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(rects, scores, float32(confThreshold), float32(d.cfg.NMSIoU))
	proposals := make([]model.Proposal, 0, len(keep))
	for _, k := range keep {
		name := fmt.Sprintf("class_%d", classes[k])
		if classes[k] < len(d.cfg.Names) {
			name = d.cfg.Names[classes[k]]
		}
		proposals = append(proposals, model.Proposal{
			BBox:       model.FromRect(rects[k], w, h),
			ClassName:  name,
			Confidence: float64(scores[k]),
		})
	}
	return filterProposals(proposals, confThreshold), nil
}
