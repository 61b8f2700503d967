// Package diagnostics projects a difference mask onto known UI elements and
// grades each one as matched, shifted, changed or missing.
//
// Grading is an ordered table of tiers keyed on the share of differing pixels
// inside the element's box. The first tier whose predicate holds decides the
// status. The ambiguous tier between the noise floor and the change threshold
// runs a bounded shift search: when the reference pixels reappear nearby in
// the actual image, the element is reported as shifted instead of changed.
package diagnostics
