// Package imaging provides the pixel-level building blocks of the engine:
// loading, region statistics, edge maps, cropping, pixel comparison and
// annotated overlays.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image origin, whatever img.Bounds().Min is:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive and Max is exclusive
//
// Relative coordinates (fractions of the frame) live in package model and are
// converted with BoundingBox.ToRect before they reach this package.
//
// # Loading
//
// Decode and LoadFile accept JPEG, PNG, GIF, BMP, TIFF and WebP. Failures are
// *model.ImageLoadError and zero-area images are *model.InvalidGeometryError,
// so callers can match both with errors.Is.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and never modifies its input images, so cached images can be
// shared across concurrent detection and comparison calls.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Large screenshots consume significant memory when cached; use
// Evict() for files that are re-captured and Clear() in long-running processes.
package imaging
