// Package classify assigns an element type to a region of a screenshot.
//
// Every variant implements the Classifier capability:
//
//   - Heuristic: an ordered rule table over pixel statistics (contrast, edge
//     density, border strength, brightness) and box geometry.
//   - Trainable: a Gaussian naive Bayes model fitted on labelled regions and
//     persisted as JSON.
//   - Precedence: picks the trainable model when one has been fitted and falls
//     back to the heuristic otherwise.
//
// The trained model lives in a Store, a process-wide cache that loads the
// model file at most once and reports an explicit unavailable state while no
// model has been trained.
package classify
