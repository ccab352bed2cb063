// Package imaging renders pointer traces as PNG images.
//
// A rendered trace shows the stroke in a colour chosen by its
// classification, the centroid, the diameter witnesses and, optionally, a
// coordinate grid labelled in trace coordinates. Rendering is for
// inspection only; the classifier never looks at pixels.
//
// # Coordinate Mapping
//
// The trace's bounding box is scaled uniformly to fit the canvas minus a
// margin and centred. Grid labels are converted back to trace coordinates,
// so a label reads the same position the pointer reported.
//
// # Color Representation
//
// Shape colours come from a fixed hue per shape, blended toward grey as
// the confidence falls. Colours are returned as "#RRGGBB" hex strings.
//
// # Thread Safety
//
// Every function is stateless and safe for concurrent use.
package imaging
