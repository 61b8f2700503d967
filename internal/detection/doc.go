// Package detection produces heuristic UI-element proposals from pixels alone.
//
// It is the fallback used when no primary detector is available and the
// supplement used when the primary detector finds too few elements.
//
// # Proposal sources
//
//   - Contours: gradient edges are dilated and grouped into 8-connected
//     components; component bounding boxes that look like controls survive.
//   - Text windows: sliding windows with medium edge density and mostly
//     horizontal edge runs.
//   - Grid: when the other sources find fewer than MinElementsTarget boxes,
//     the frame is cut into a grid and high-variance cells are proposed. The
//     grid never comes back empty.
//
// # Merging
//
// Proposals are deduplicated greedily by confidence (IoU above 0.35 is a
// duplicate), then boxes that overlap heavily (IoU above 0.6 or more than 80%
// of the smaller box covered) are fused into their union.
//
// All boxes are relative to the frame, see model.BoundingBox. Proposals carry
// no class name; classification happens later.
package detection
