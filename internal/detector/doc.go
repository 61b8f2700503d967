// Package detector provides the primary UI-element detector backends.
//
// A Detector turns a frame into raw proposals: relative boxes with an
// optional class name and an objectness score. Backends:
//
//   - HTTPDetector posts the frame to an external inference service.
//   - ONNXDetector runs a YOLOv8 ONNX export through gocv. It is only built
//     with the gocv build tag; otherwise NewONNXDetector always fails.
//   - Unavailable always reports model.ErrDetectorUnavailable.
//
// Cached wraps a constructor so the backend is initialised lazily and only
// once on success. A failed initialisation is reported as unavailable and
// retried after a backoff.
package detector
