package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodedImage carries an image encoded as base64 PNG for tool responses.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Crop extracts r from img as a new image anchored at the origin.
//
// r is relative to the origin of img, not to img.Bounds().Min. It is clipped to
// the image; a rectangle that misses the image entirely is an error.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	abs := r.Add(bounds.Min).Intersect(bounds)
	if abs.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	return imaging.Crop(img, abs), nil
}

// CropPadded is Crop with r grown by pad pixels on every side first.
func CropPadded(img image.Image, r image.Rectangle, pad int) (*image.NRGBA, error) {
	return Crop(img, r.Inset(-pad))
}
