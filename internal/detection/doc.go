// Package detection classifies finished pointer traces as geometric shapes.
//
// A trace is the ordered sequence of pointer positions captured while the
// pointer moved. The classifier works on those raw integer samples, not on
// images, and uses closed-form statistical tests rather than model fitting.
//
// # Shapes
//
// A trace is labelled as one of:
//   - Circle: distances from the centroid stay within a tolerance band
//   - Line: the endpoints are the diameter witnesses and the samples stay
//     close to the line through them
//   - Ellipse: samples are symmetric about the longest chord and their
//     height above it shrinks toward the chord's end
//   - Unknown: none of the above
//
// Undefined is the zero value of [Shape] and is never returned by the
// classifier.
//
// # Algorithm Overview
//
// Tests run in a fixed order and the first match wins:
//
//  1. Circle: reference statistics around the centroid; passes when the
//     in-band percentage reaches 100 - round(100 × GeneralTolerance).
//  2. Line: only when the longest pairwise distance equals the start-to-end
//     distance (exact integer equality after truncation). Line or Unknown.
//  3. Ellipse: only when the centroid lies within EllipseCentrumTolerancePx
//     of the longest chord's midpoint. Probes walk along the chord and
//     compare the nearest sample's height with its mirror's height.
//  4. Otherwise Unknown with the circle percentage as confidence.
//
// # Confidence Scores
//
// Confidence is an integer percentage (0 to 100). For Unknown results,
// [Result.Basis] names the test whose percentage was reported, so callers
// can print "UNKNOWN (41% Line)".
//
// # Errors
//
// Traces with fewer than two samples fail with [ErrInsufficientSamples].
// Degenerate geometry (coincident line points, empty ellipse probes) never
// fails; it yields Unknown with confidence 0 and a Reason.
//
// # Concurrency
//
// A [Classifier] holds only its immutable configuration. It is safe to
// classify independent traces from multiple goroutines. A trace must not be
// appended to while it is being classified.
package detection
