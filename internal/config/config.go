// Package config reads the server settings from the environment.
//
// A .env file in the working directory is loaded first when present. Values
// already set in the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	"github.com/ironsheep/ui-regression-mcp/internal/engine"
	"github.com/ironsheep/ui-regression-mcp/internal/ocr"
)

// Environment variable names.
const (
	EnvUsePrimaryDetector   = "USE_PRIMARY_DETECTOR"
	EnvPrimaryConfThreshold = "PRIMARY_CONF_THRESHOLD"
	EnvDiffTolerance        = "CV_DIFF_TOLERANCE"
	EnvSSIMThreshold        = "CV_SSIM_THRESHOLD"
	EnvElementDiffRatio     = "CV_ELEMENT_DIFF_RATIO"
	EnvElementShiftPx       = "CV_ELEMENT_SHIFT_PX"
	EnvDisableShiftSearch   = "CV_DISABLE_SHIFT_SEARCH"
	EnvFeatureAlign         = "CV_FEATURE_ALIGN"
	EnvInferenceURL         = "INFERENCE_URL"
	EnvONNXModelPath        = "ONNX_MODEL_PATH"
	EnvONNXClassNames       = "ONNX_CLASS_NAMES"
	EnvClassifierModelPath  = "CLASSIFIER_MODEL_PATH"
	EnvOCREnabled           = "OCR_ENABLED"
	EnvTessdataDir          = "OCR_TESSDATA_DIR"
	EnvLogLevel             = "UI_REGRESSION_LOG_LEVEL"
)

// Config is the resolved server configuration.
type Config struct {
	// Defaults are the engine options used when a tool call omits them.
	Defaults engine.Options

	InferenceURL        string
	ONNXModelPath       string
	ONNXClassNames      []string
	ClassifierModelPath string

	OCREnabled  bool
	TessdataDir string

	LogLevel string
}

// Debug reports whether debug logging is on.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Detector returns the primary detector settings.
func (c *Config) Detector() detector.Config {
	return detector.Config{
		InferenceURL: c.InferenceURL,
		ONNX: detector.ONNXConfig{
			ModelPath: c.ONNXModelPath,
			Names:     c.ONNXClassNames,
		},
	}
}

// OCR returns the text extraction settings.
func (c *Config) OCR() ocr.Config {
	return ocr.Config{TessdataDir: c.TessdataDir}
}

// Load reads the given .env files (default ".env") and then the environment.
// Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return Parse(os.LookupEnv)
}

// Parse builds a Config from lookup. Unset or empty variables keep their
// defaults; malformed values are errors naming the variable.
func Parse(lookup func(string) (string, bool)) (*Config, error) {
	p := parser{lookup: lookup}
	cfg := &Config{Defaults: engine.DefaultOptions()}
	d := &cfg.Defaults

	d.UsePrimaryDetector = p.boolVar(EnvUsePrimaryDetector, d.UsePrimaryDetector)
	d.PrimaryConfThreshold = p.unitVar(EnvPrimaryConfThreshold, d.PrimaryConfThreshold)
	d.DiffThreshold = p.unitVar(EnvDiffTolerance, d.DiffThreshold)
	d.SSIMThreshold = p.unitVar(EnvSSIMThreshold, d.SSIMThreshold)
	d.ElementDiffRatio = p.unitVar(EnvElementDiffRatio, d.ElementDiffRatio)
	d.ElementShiftPx = p.intVar(EnvElementShiftPx, d.ElementShiftPx)
	d.DisableShiftSearch = p.boolVar(EnvDisableShiftSearch, false)
	d.FeatureAlign = p.boolVar(EnvFeatureAlign, false)

	cfg.InferenceURL = p.stringVar(EnvInferenceURL)
	cfg.ONNXModelPath = p.stringVar(EnvONNXModelPath)
	cfg.ONNXClassNames = p.listVar(EnvONNXClassNames)
	cfg.ClassifierModelPath = p.stringVar(EnvClassifierModelPath)
	cfg.OCREnabled = p.boolVar(EnvOCREnabled, false)
	cfg.TessdataDir = p.stringVar(EnvTessdataDir)
	cfg.LogLevel = strings.ToLower(p.stringVar(EnvLogLevel))
	d.ExtractText = cfg.OCREnabled

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return cfg, nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) stringVar(name string) string {
	v, _ := p.lookup(name)
	return strings.TrimSpace(v)
}

func (p *parser) fail(name, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s=%q: %w", name, value, err))
}

func (p *parser) boolVar(name string, def bool) bool {
	v := p.stringVar(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, v, err)
		return def
	}
	return b
}

// unitVar parses a float in [0,1].
func (p *parser) unitVar(name string, def float64) float64 {
	v := p.stringVar(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && (f < 0 || f > 1) {
		err = errors.New("must be between 0 and 1")
	}
	if err != nil {
		p.fail(name, v, err)
		return def
	}
	return f
}

func (p *parser) intVar(name string, def int) int {
	v := p.stringVar(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err == nil && n < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		p.fail(name, v, err)
		return def
	}
	return n
}

func (p *parser) listVar(name string) []string {
	v := p.stringVar(name)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
