//go:build !tesseract

package ocr

import "image"

// BuiltIn reports whether Tesseract support was compiled in.
const BuiltIn = false

// Tesseract is unavailable in builds without the tesseract tag.
type Tesseract struct{}

// New always returns ErrUnavailable.
func New(Config) (*Tesseract, error) {
	return nil, ErrUnavailable
}

// Text implements Reader.
func (*Tesseract) Text(image.Image) (string, error) {
	return "", ErrUnavailable
}

// Close does nothing.
func (*Tesseract) Close() error { return nil }
