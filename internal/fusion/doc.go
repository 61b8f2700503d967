// Package fusion turns raw detector proposals into typed UI elements.
//
// The Fuser combines the primary detector with the heuristic proposal
// sources and the classifier:
//
//  1. Primary proposals are filtered by confidence and their class names are
//     mapped through a fixed lexicon. When the primary detector is disabled,
//     unavailable or failing, heuristic proposals are used instead; when it
//     finds fewer than detection.MinElementsTarget elements, heuristic
//     proposals are merged in.
//  2. Overlapping proposals (IoU above the dedupe threshold) collapse to the
//     more confident one.
//  3. Proposals without a confident class are classified from their pixels.
//     The classifier result only replaces a more confident held type.
//  4. An ordered table of shape corrections fixes common confusions.
//  5. Final confidence is the mean of objectness and type confidence, and
//     elements are named "<type> #<n>" in detection order.
//
// Primary detector problems are never fatal; they are reported through
// Result.Degraded.
package fusion
