package ocr

import (
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
)

// ErrUnavailable is returned when OCR support is not compiled in or the
// engine cannot start.
var ErrUnavailable = errors.New("ocr unavailable")

// Language is the only recognition language.
const Language = "eng"

// minTextHeight is the crop height below which crops are upscaled.
const minTextHeight = 32

// Reader recognises the text in an image.
type Reader interface {
	Text(img image.Image) (string, error)
}

// Config configures the Tesseract reader.
type Config struct {
	// TessdataDir overrides the directory holding eng.traineddata.
	TessdataDir string
}

// ElementText returns the normalised text inside rect of frame, or "" when
// nothing readable is found. rect is relative to the frame origin.
func ElementText(r Reader, frame image.Image, rect image.Rectangle) string {
	if r == nil {
		return ""
	}
	crop, err := imgutil.CropPadded(frame, rect, 2)
	if err != nil {
		return ""
	}
	var src image.Image = crop
	if h := crop.Bounds().Dy(); h < minTextHeight {
		scale := float64(minTextHeight) / float64(h)
		w := int(float64(crop.Bounds().Dx())*scale + 0.5)
		src = imaging.Resize(crop, w, minTextHeight, imaging.Linear)
	}
	text, err := r.Text(src)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}
