package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// DefaultHTTPTimeout bounds a single inference round trip.
const DefaultHTTPTimeout = 30 * time.Second

// httpDetection is one box in the inference service response. Coordinates
// are absolute pixels of the submitted frame.
type httpDetection struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// HTTPDetector sends frames to an external inference service.
//
// The frame is posted as a PNG in the multipart field "file" and the service
// answers {"detections": [{x, y, width, height, class, confidence}, ...]}.
type HTTPDetector struct {
	URL    string
	Client *http.Client
}

// NewHTTPDetector returns a detector for the inference endpoint at url.
func NewHTTPDetector(url string) *HTTPDetector {
	return &HTTPDetector{
		URL:    strings.TrimRight(url, "/"),
		Client: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// Name implements Named.
func (d *HTTPDetector) Name() string { return "http" }

func (d *HTTPDetector) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// Detect implements Detector.
func (d *HTTPDetector) Detect(ctx context.Context, img image.Image, confThreshold float64) ([]model.Proposal, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &model.InvalidGeometryError{Width: b.Dx(), Height: b.Dy()}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "frame.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result struct {
		Detections []httpDetection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	proposals := make([]model.Proposal, 0, len(result.Detections))
	for _, det := range result.Detections {
		r := image.Rect(det.X, det.Y, det.X+det.Width, det.Y+det.Height)
		proposals = append(proposals, model.Proposal{
			BBox:       model.FromRect(r, b.Dx(), b.Dy()),
			ClassName:  det.Class,
			Confidence: det.Confidence,
		})
	}
	return filterProposals(proposals, confThreshold), nil
}

// Health checks the service's /health endpoint.
func (d *HTTPDetector) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: inference service unhealthy: %d", model.ErrDetectorUnavailable, resp.StatusCode)
	}
	return nil
}
