// Package engine ties detection and comparison together behind one facade.
//
// An Engine holds only the process-wide primary detector and trained
// classifier; every Detect and Compare call is independent and may run in
// parallel with others.
package engine
