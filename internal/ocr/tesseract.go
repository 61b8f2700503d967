//go:build tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// BuiltIn reports whether Tesseract support was compiled in.
const BuiltIn = true

// Tesseract is a Reader backed by a single gosseract client. Calls are
// serialised because a client is not safe for concurrent use.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New starts a Tesseract client for English text.
func New(cfg Config) (*Tesseract, error) {
	client := gosseract.NewClient()
	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: failed to set tessdata prefix: %v", ErrUnavailable, err)
		}
	}
	if err := client.SetLanguage(Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to set language: %v", ErrUnavailable, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to set page segmentation mode: %v", ErrUnavailable, err)
	}
	return &Tesseract{client: client}, nil
}

// Text implements Reader.
func (t *Tesseract) Text(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Close releases the native client.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
