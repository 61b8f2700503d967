package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// bboxSchema describes a relative bounding box.
var bboxSchema = map[string]interface{}{
	"type":        "object",
	"description": "Bounding box as fractions of the image size (0-1)",
	"properties": map[string]interface{}{
		"x": map[string]interface{}{"type": "number", "description": "Left edge"},
		"y": map[string]interface{}{"type": "number", "description": "Top edge"},
		"w": map[string]interface{}{"type": "number", "description": "Width"},
		"h": map[string]interface{}{"type": "number", "description": "Height"},
	},
	"required": []string{"x", "y", "w", "h"},
}

// elementsSchema describes UI elements as returned by ui_detect_elements.
var elementsSchema = map[string]interface{}{
	"type":        "array",
	"description": "UI elements detected on the reference image, as returned by ui_detect_elements",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":           map[string]interface{}{"type": "integer"},
			"bbox":         bboxSchema,
			"element_type": map[string]interface{}{"type": "string"},
			"confidence":   map[string]interface{}{"type": "number"},
			"display_name": map[string]interface{}{"type": "string"},
		},
		"required": []string{"id", "bbox"},
	},
}

func detectProperties() map[string]interface{} {
	return map[string]interface{}{
		"use_primary_detector": map[string]interface{}{
			"type":        "boolean",
			"description": "Use the primary detector when available. Falls back to heuristics otherwise",
		},
		"primary_conf_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Minimum primary detector confidence (0-1). Default 0.15",
		},
		"extract_text": map[string]interface{}{
			"type":        "boolean",
			"description": "Read element text with OCR when it is available",
		},
	}
}

func compareProperties() map[string]interface{} {
	return map[string]interface{}{
		"diff_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Per-pixel color tolerance and failing mismatch ratio (0-1). Default 0.12",
		},
		"ssim_threshold": map[string]interface{}{
			"type":        "number",
			"description": "SSIM below which the comparison fails. Default 0.88",
		},
		"element_diff_ratio": map[string]interface{}{
			"type":        "number",
			"description": "Share of an element's pixels that may differ before it is examined. Default 0.12",
		},
		"element_shift_px": map[string]interface{}{
			"type":        "integer",
			"description": "Largest element displacement searched, in pixels. Zero or absent selects 18",
		},
		"disable_shift_search": map[string]interface{}{
			"type":        "boolean",
			"description": "Grade displaced elements as changed instead of searching for the move",
		},
		"feature_align": map[string]interface{}{
			"type":        "boolean",
			"description": "Register the actual screenshot onto the reference with ORB features before comparing (gocv builds; falls back to resize)",
		},
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load a screenshot and return its dimensions, format and file size. The image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        "ui_detect_elements",
			Description: "Detect UI elements (button, input, label, image, link) on a screenshot. Returns typed, confidence-scored bounding boxes relative to the image size. Store the result as the reference elements for later comparisons.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(map[string]interface{}{
					"path": pathProperty("Absolute path to the reference screenshot"),
				}, detectProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "ui_classify_region",
			Description: "Classify one region of a screenshot as a UI element type using the trained classifier when present, otherwise the heuristic rules.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the screenshot"),
					"bbox": bboxSchema,
				},
				"required": []string{"path", "bbox"},
			},
		},

		// Comparison
		{
			Name:        "ui_compare_screenshots",
			Description: "Compare an actual screenshot against its reference. Returns SSIM, mismatch ratio, per-element diagnostics (matched, shifted, changed, missing), coverage and a severity-graded defect when the thresholds are breached. Elements are detected on the reference when none are given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(map[string]interface{}{
					"reference_path": pathProperty("Absolute path to the reference screenshot"),
					"actual_path":    pathProperty("Absolute path to the actual screenshot"),
					"elements":       elementsSchema,
				}, detectProperties(), compareProperties()),
				"required": []string{"reference_path", "actual_path"},
			},
		},
		{
			Name:        "ui_evaluate_defect",
			Description: "Apply the defect policy to precomputed scores. Fails when SSIM is below its threshold or the mismatch ratio exceeds the diff threshold; critical when SSIM is 0.78 or lower.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(map[string]interface{}{
					"ssim_score":     map[string]interface{}{"type": "number", "description": "Structural similarity (-1 to 1)"},
					"mismatch_ratio": map[string]interface{}{"type": "number", "description": "Share of differing pixels (0-1)"},
				}, compareProperties()),
				"required": []string{"ssim_score", "mismatch_ratio"},
			},
		},
		{
			Name:        "ui_highlight_elements",
			Description: "Draw numbered element boxes over a screenshot and return it as base64-encoded PNG. With diagnostics the boxes are colored by status.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":     pathProperty("Absolute path to the screenshot"),
					"elements": elementsSchema,
					"diagnostics": map[string]interface{}{
						"type":        "array",
						"description": "Diagnostics from ui_compare_screenshots",
						"items":       map[string]interface{}{"type": "object"},
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default 2",
						"default":     2,
					},
				},
				"required": []string{"path", "elements"},
			},
		},

		// Classifier and backends
		{
			Name:        "ui_train_classifier",
			Description: "Train the element classifier from labelled regions. The model replaces the current one and is saved when a model path is configured.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"samples": map[string]interface{}{
						"type":        "array",
						"description": "Labelled regions",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"path":         pathProperty("Absolute path to the screenshot"),
								"bbox":         bboxSchema,
								"element_type": map[string]interface{}{"type": "string", "enum": []string{"button", "input", "label", "image", "link"}},
							},
							"required": []string{"path", "bbox", "element_type"},
						},
					},
				},
				"required": []string{"samples"},
			},
		},
		{
			Name:        "ui_detector_status",
			Description: "Report which detection backends are in use: primary detector, classifier variant and OCR.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
