// Package geometry provides the integer vector arithmetic and distance
// statistics used to classify pointer traces.
//
// # Coordinate System
//
// Points use screen coordinates as reported by a pointing device:
//   - Origin (0, 0) at the top-left corner of the screen
//   - X increases rightward
//   - Y increases downward
//
// # Truncation
//
// Distances between points are Euclidean distances truncated toward zero
// to an integer. Every distance in this package goes through
// [Point.Distance], so two independently computed distances can be compared
// for exact equality. Perpendicular distances to a line are the one
// exception and are returned as float64.
//
// # Statistics
//
// Two analyses run over a trace:
//   - [AllPairsExtremes]: the closest and the farthest pair of distinct points
//   - [ReferenceStats]: distances from a reference point (usually the centroid)
//     with an average, extrema and a tolerance-band tally
//
// Both are O(n) or O(n²) scans without spatial indexing. Traces are bounded by
// the number of samples in a single human gesture, so a linear scan is enough.
package geometry
