package fusion

import (
	"strings"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// lexicon maps detector class names to element types.
var lexicon = map[string]model.ElementType{
	"button": model.TypeButton,
	"input":  model.TypeInput,
	"text":   model.TypeLabel,
	"label":  model.TypeLabel,
	"image":  model.TypeImage,
	"icon":   model.TypeImage,
	"link":   model.TypeLink,
}

// TypeForClass maps a raw class name to an element type. Matching ignores
// case and surrounding space; unrecognised names map to unknown.
func TypeForClass(className string) model.ElementType {
	if t, ok := lexicon[strings.ToLower(strings.TrimSpace(className))]; ok {
		return t
	}
	return model.TypeUnknown
}
