// Package model defines the data carried between the detection and comparison
// stages of the visual-regression engine.
//
// # Coordinates
//
// Element locations are stored as BoundingBox values relative to the frame
// they were detected on: every field is a fraction of the image width or
// height, so a box survives re-rendering at a different resolution. Absolute
// pixel rectangles are derived on demand with BoundingBox.ToRect.
//
// # Lifetimes
//
//   - Proposal values only live inside one detection call.
//   - UIElement sets belong to the reference image they were detected on and are
//     replaced wholesale on re-analysis.
//   - DiffMask values only live inside one comparison call.
//   - ElementDiagnostic, ComparisonResult and Defect are immutable records.
//
// # Errors
//
// ImageLoadError and InvalidGeometryError are terminal for the unit of work
// that produced them. ErrDetectorUnavailable is never terminal: detection
// degrades to heuristic classification instead.
package model
