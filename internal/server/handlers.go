package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ironsheep/ui-regression-mcp/internal/engine"
	"github.com/ironsheep/ui-regression-mcp/internal/fusion"
	"github.com/ironsheep/ui-regression-mcp/internal/imaging"
	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "ui_detect_elements").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Detection
	case "ui_detect_elements":
		return s.handleDetectElements(ctx, args)
	case "ui_classify_region":
		return s.handleClassifyRegion(args)

	// Comparison
	case "ui_compare_screenshots":
		return s.handleCompareScreenshots(ctx, args)
	case "ui_evaluate_defect":
		return s.handleEvaluateDefect(args)
	case "ui_highlight_elements":
		return s.handleHighlightElements(args)

	// Classifier and backends
	case "ui_train_classifier":
		return s.handleTrainClassifier(args)
	case "ui_detector_status":
		return s.engine.Status(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// optionArgs are the engine options a tool call may override. Absent fields
// keep the server defaults.
type optionArgs struct {
	UsePrimaryDetector   *bool    `json:"use_primary_detector"`
	PrimaryConfThreshold *float64 `json:"primary_conf_threshold"`
	ExtractText          *bool    `json:"extract_text"`
	DiffThreshold        *float64 `json:"diff_threshold"`
	SSIMThreshold        *float64 `json:"ssim_threshold"`
	ElementDiffRatio     *float64 `json:"element_diff_ratio"`
	ElementShiftPx       *int     `json:"element_shift_px"`
	DisableShiftSearch   *bool    `json:"disable_shift_search"`
	FeatureAlign         *bool    `json:"feature_align"`
}

func (a optionArgs) apply(o engine.Options) engine.Options {
	if a.UsePrimaryDetector != nil {
		o.UsePrimaryDetector = *a.UsePrimaryDetector
	}
	if a.PrimaryConfThreshold != nil {
		o.PrimaryConfThreshold = *a.PrimaryConfThreshold
	}
	if a.ExtractText != nil {
		o.ExtractText = *a.ExtractText
	}
	if a.DiffThreshold != nil {
		o.DiffThreshold = *a.DiffThreshold
	}
	if a.SSIMThreshold != nil {
		o.SSIMThreshold = *a.SSIMThreshold
	}
	if a.ElementDiffRatio != nil {
		o.ElementDiffRatio = *a.ElementDiffRatio
	}
	if a.ElementShiftPx != nil {
		o.ElementShiftPx = *a.ElementShiftPx
	}
	if a.DisableShiftSearch != nil {
		o.DisableShiftSearch = *a.DisableShiftSearch
	}
	if a.FeatureAlign != nil {
		o.FeatureAlign = *a.FeatureAlign
	}
	return o
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	// Reload so a re-captured file is not served from the cache.
	s.cache.Evict(a.Path)
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Detection Handlers ===

type detectElementsArgs struct {
	Path string `json:"path"`
	optionArgs
}

func (s *Server) handleDetectElements(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectElementsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.engine.DetectImage(ctx, img, a.apply(s.defaults))
}

type classifyRegionArgs struct {
	Path string            `json:"path"`
	BBox model.BoundingBox `json:"bbox"`
}

// ClassifyResult is the ui_classify_region response.
type ClassifyResult struct {
	ElementType model.ElementType `json:"element_type"`
	Confidence  float64           `json:"confidence"`
	Classifier  string            `json:"classifier"`
}

func (s *Server) handleClassifyRegion(args json.RawMessage) (interface{}, error) {
	var a classifyRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.BBox.W <= 0 || a.BBox.H <= 0 {
		return nil, errors.New("bbox must have a positive width and height")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	t, conf, err := s.engine.Classify(img, a.BBox)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{
		ElementType: t,
		Confidence:  conf,
		Classifier:  s.engine.Status().Classifier,
	}, nil
}

// === Comparison Handlers ===

type compareScreenshotsArgs struct {
	ReferencePath string            `json:"reference_path"`
	ActualPath    string            `json:"actual_path"`
	Elements      []model.UIElement `json:"elements"`
	optionArgs
}

// CompareResult is the ui_compare_screenshots response. Detection is set when
// the elements were detected during the call.
type CompareResult struct {
	*model.ComparisonResult
	Detection *fusion.Result `json:"detection,omitempty"`
}

func (s *Server) handleCompareScreenshots(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a compareScreenshotsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := a.apply(s.defaults)

	// Both screenshots are reloaded on every call.
	s.cache.Evict(a.ReferencePath)
	s.cache.Evict(a.ActualPath)
	ref, err := s.cache.Load(a.ReferencePath)
	if err != nil {
		return nil, err
	}
	act, err := s.cache.Load(a.ActualPath)
	if err != nil {
		return nil, err
	}

	out := &CompareResult{}
	elements := a.Elements
	if elements == nil {
		det, err := s.engine.DetectImage(ctx, ref, opts)
		if err != nil {
			return nil, err
		}
		out.Detection = det
		elements = det.Elements
	}

	out.ComparisonResult, err = s.engine.CompareImages(ctx, ref, act, elements, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type evaluateDefectArgs struct {
	SSIMScore     *float64 `json:"ssim_score"`
	MismatchRatio *float64 `json:"mismatch_ratio"`
	optionArgs
}

// EvaluateResult is the ui_evaluate_defect response.
type EvaluateResult struct {
	Passed bool          `json:"passed"`
	Defect *model.Defect `json:"defect,omitempty"`
}

func (s *Server) handleEvaluateDefect(args json.RawMessage) (interface{}, error) {
	var a evaluateDefectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SSIMScore == nil || a.MismatchRatio == nil {
		return nil, errors.New("ssim_score and mismatch_ratio are required")
	}
	d := s.engine.Evaluate(*a.SSIMScore, *a.MismatchRatio, a.apply(s.defaults))
	return &EvaluateResult{Passed: d == nil, Defect: d}, nil
}

type highlightElementsArgs struct {
	Path        string                    `json:"path"`
	Elements    []model.UIElement         `json:"elements"`
	Diagnostics []model.ElementDiagnostic `json:"diagnostics"`
	Thickness   int                       `json:"thickness"`
}

// statusColors color boxes on a diagnosed overlay.
var statusColors = map[model.Status]string{
	model.StatusMatched: "#2E7D32",
	model.StatusShifted: "#F9A825",
	model.StatusChanged: "#EF6C00",
	model.StatusMissing: "#C62828",
}

// typeColors color boxes on a plain detection overlay.
var typeColors = map[model.ElementType]string{
	model.TypeButton:  "#1565C0",
	model.TypeInput:   "#6A1B9A",
	model.TypeLabel:   "#00838F",
	model.TypeImage:   "#AD1457",
	model.TypeLink:    "#283593",
	model.TypeUnknown: "#757575",
}

func (s *Server) handleHighlightElements(args json.RawMessage) (interface{}, error) {
	var a highlightElementsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Thickness == 0 {
		a.Thickness = 2
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	status := make(map[int]model.Status, len(a.Diagnostics))
	for _, d := range a.Diagnostics {
		status[d.ElementID] = d.Status
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	boxes := make([]imaging.HighlightBox, 0, len(a.Elements))
	for _, el := range a.Elements {
		c, ok := statusColors[status[el.ID]]
		if !ok {
			c = typeColors[el.Type]
		}
		boxes = append(boxes, imaging.HighlightBox{
			Rect:     el.BBox.Clamp().ToRect(w, h),
			Label:    "#" + strconv.Itoa(el.ID),
			ColorHex: c,
		})
	}
	return imaging.Highlight(img, boxes, a.Thickness)
}

// === Classifier Handlers ===

type trainClassifierArgs struct {
	Samples []struct {
		Path        string            `json:"path"`
		BBox        model.BoundingBox `json:"bbox"`
		ElementType string            `json:"element_type"`
	} `json:"samples"`
}

func (s *Server) handleTrainClassifier(args json.RawMessage) (interface{}, error) {
	var a trainClassifierArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Samples) == 0 {
		return nil, errors.New("no training samples")
	}

	examples := make([]engine.Example, 0, len(a.Samples))
	for i, smp := range a.Samples {
		t := model.ParseElementType(smp.ElementType)
		if t == model.TypeUnknown {
			return nil, fmt.Errorf("sample %d: unsupported element type %q", i, smp.ElementType)
		}
		img, err := s.cache.Load(smp.Path)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		examples = append(examples, engine.Example{Frame: img, BBox: smp.BBox, Type: t})
	}
	return s.engine.Train(examples)
}
