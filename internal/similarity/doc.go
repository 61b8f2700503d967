// Package similarity aligns an actual screenshot to its reference and scores
// how far the two have drifted apart.
//
// Alignment is a deterministic resize of the actual image onto the reference
// pixel grid. Builds with the gocv tag can first try Register, an ORB feature
// homography; when it finds too few matches the resize is used instead. Two
// measures are then computed over the aligned pair:
//
//   - SSIM: the windowed structural similarity index on luma, a scalar in
//     [-1, 1] where 1 means structurally identical.
//   - A binary difference mask marking pixels whose normalised RGB distance
//     exceeds a threshold, cleaned by a morphological opening.
//
// Neither input image is modified; the aligned image is a fresh copy owned by
// the returned Result.
package similarity
