package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/ui-regression-mcp/internal/classify"
	"github.com/ironsheep/ui-regression-mcp/internal/config"
	"github.com/ironsheep/ui-regression-mcp/internal/detector"
	"github.com/ironsheep/ui-regression-mcp/internal/engine"
	"github.com/ironsheep/ui-regression-mcp/internal/ocr"
	"github.com/ironsheep/ui-regression-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ui-regression-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OCR built in: %v\n", ocr.BuiltIn)
			return
		case "--help", "-h", "help":
			fmt.Println("ui-regression-mcp - MCP server for UI visual-regression testing")
			fmt.Println()
			fmt.Println("Usage: ui-regression-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  USE_PRIMARY_DETECTOR=1           Use the primary detector when available")
			fmt.Println("  PRIMARY_CONF_THRESHOLD=0.15      Minimum primary detector confidence")
			fmt.Println("  CV_DIFF_TOLERANCE=0.12           Pixel tolerance and failing mismatch ratio")
			fmt.Println("  CV_SSIM_THRESHOLD=0.88           SSIM below which a comparison fails")
			fmt.Println("  CV_ELEMENT_DIFF_RATIO=0.12       Element noise floor")
			fmt.Println("  CV_ELEMENT_SHIFT_PX=18           Element shift search radius")
			fmt.Println("  CV_DISABLE_SHIFT_SEARCH=0        Grade displaced elements as changed")
			fmt.Println("  CV_FEATURE_ALIGN=0               ORB homography alignment (gocv builds)")
			fmt.Println("  INFERENCE_URL=<url>              HTTP primary detector endpoint")
			fmt.Println("  ONNX_MODEL_PATH=<file>           ONNX primary detector model (gocv builds)")
			fmt.Println("  ONNX_CLASS_NAMES=a,b,...         ONNX model class order")
			fmt.Println("  CLASSIFIER_MODEL_PATH=<file>     Trained classifier location")
			fmt.Println("  OCR_ENABLED=0                    Read element text (tesseract builds)")
			fmt.Println("  OCR_TESSDATA_DIR=<dir>           Tesseract language data directory")
			fmt.Println("  UI_REGRESSION_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("UI Regression MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Defaults: %+v", cfg.Defaults)
	}

	var reader ocr.Reader
	if cfg.OCREnabled {
		t, err := ocr.New(cfg.OCR())
		if err != nil {
			log.Printf("OCR disabled: %v", err)
			cfg.Defaults.ExtractText = false
		} else {
			defer t.Close()
			reader = t
		}
	}

	eng := engine.New(engine.Config{
		Primary: detector.New(cfg.Detector()),
		Models:  classify.NewStore(cfg.ClassifierModelPath),
		Reader:  reader,
	})

	server.Version = Version
	srv := server.New(eng, cfg.Defaults)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
