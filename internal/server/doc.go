// Package server implements the MCP (Model Context Protocol) server for UI
// visual-regression tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the detection and
// comparison engine through the MCP protocol, so an MCP client can detect UI
// elements on a reference screenshot and later grade an actual screenshot
// against it.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load a screenshot and get metadata
//   - image_dimensions: Get width and height
//
// Detection:
//   - ui_detect_elements: Typed, confidence-scored element boxes
//   - ui_classify_region: Element type of one region
//
// Comparison:
//   - ui_compare_screenshots: SSIM, mismatch, per-element diagnostics, defect
//   - ui_evaluate_defect: Defect policy on precomputed scores
//   - ui_highlight_elements: Overlay of numbered element boxes
//
// Classifier and backends:
//   - ui_train_classifier: Fit the trainable classifier from labelled regions
//   - ui_detector_status: Active detector, classifier and OCR backends
//
// Tool arguments named like the engine options (use_primary_detector,
// diff_threshold, ssim_threshold, element_diff_ratio, element_shift_px,
// disable_shift_search, feature_align, ...)
// override the configured defaults for that call only.
//
// # Image Caching
//
// Loaded images are cached by path for the lifetime of the process. The
// actual screenshot of a comparison and any image_load target are reloaded
// from disk on every call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	eng := engine.New(engine.Config{Primary: detector.New(cfg.Detector())})
//	srv := server.New(eng, cfg.Defaults)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
