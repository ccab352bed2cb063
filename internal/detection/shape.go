package detection

import (
	"errors"
	"fmt"
	"strings"
)

// Shape is the label assigned to a trace.
type Shape int

const (
	// Undefined marks a trace that has not been classified yet.
	Undefined Shape = iota
	Circle
	Line
	Ellipse
	Unknown
)

var shapeNames = map[Shape]string{
	Undefined: "undefined",
	Circle:    "circle",
	Line:      "line",
	Ellipse:   "ellipse",
	Unknown:   "unknown",
}

// String returns the lowercase shape name.
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// MarshalText encodes the shape as its lowercase name.
func (s Shape) MarshalText() ([]byte, error) {
	if _, ok := shapeNames[s]; !ok {
		return nil, fmt.Errorf("unknown shape value %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses a shape name, case-insensitively.
func (s *Shape) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for shape, n := range shapeNames {
		if n == name {
			*s = shape
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", string(text))
}

var (
	// ErrInsufficientSamples is returned for traces with fewer than two points.
	ErrInsufficientSamples = errors.New("insufficient samples: need at least 2 points")

	// ErrDegenerateLine is reported when the points defining a line coincide.
	ErrDegenerateLine = errors.New("degenerate line: defining points coincide")

	// ErrDegenerateEllipse is reported when the ellipse probe has no samples.
	ErrDegenerateEllipse = errors.New("degenerate ellipse: no symmetry samples")
)

// Result is the outcome of classifying one trace.
type Result struct {
	// Shape is Circle, Line, Ellipse or Unknown.
	Shape Shape `json:"shape"`

	// Confidence is an integer percentage (0 to 100).
	Confidence int `json:"confidence"`

	// Basis is the test Confidence was measured by. It equals Shape for
	// positive results and names the failed test for Unknown.
	Basis Shape `json:"basis"`

	// Reason is set when degenerate geometry forced an Unknown result.
	Reason string `json:"reason,omitempty"`
}

// String renders the result as "CIRCLE (92%)" or "UNKNOWN (41% Line)".
func (r Result) String() string {
	label := strings.ToUpper(r.Shape.String())
	if r.Shape == Unknown && r.Basis != Unknown && r.Basis != Undefined {
		basis := r.Basis.String()
		return fmt.Sprintf("%s (%d%% %s)", label, r.Confidence, strings.ToUpper(basis[:1])+basis[1:])
	}
	return fmt.Sprintf("%s (%d%%)", label, r.Confidence)
}

func degenerate(err error) Result {
	return Result{Shape: Unknown, Confidence: 0, Basis: Unknown, Reason: err.Error()}
}
