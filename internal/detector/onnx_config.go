package detector

// DefaultClassNames is the class order of the bundled UI-element export.
var DefaultClassNames = []string{"button", "input", "text", "image", "icon", "link"}

// ONNXConfig configures the ONNX backend.
type ONNXConfig struct {
	ModelPath string
	// Names maps output class indices to class names.
	Names []string
	// InputSize is the square network input in pixels.
	InputSize int
	// NMSIoU is the non-maximum suppression overlap limit.
	NMSIoU float64
}

func (c ONNXConfig) withDefaults() ONNXConfig {
	if len(c.Names) == 0 {
		c.Names = DefaultClassNames
	}
	if c.InputSize <= 0 {
		c.InputSize = 640
	}
	if c.NMSIoU <= 0 {
		c.NMSIoU = 0.4
	}
	return c
}
