package detection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid classifier config")

// Config holds the tolerances used by the classifier.
//
// Relative tolerances are fractions (0.25 = 25%); pixel tolerances are in
// screen pixels.
type Config struct {
	// GeneralTolerance sets the pass threshold for every shape. Circle and
	// line pass at 100 - round(100 × GeneralTolerance) percent; an ellipse
	// passes when its imperfection is at most GeneralTolerance.
	GeneralTolerance float64 `json:"general_tolerance"`

	// CircleTolerance is the relative band around the average centroid
	// distance inside which a sample counts as on the circle.
	CircleTolerance float64 `json:"circle_tolerance"`

	// LineTolerancePx is the largest perpendicular distance from the
	// start-end line at which a sample still counts as on the line.
	LineTolerancePx float64 `json:"line_tolerance_px"`

	// EllipseCentrumTolerancePx is the largest allowed distance between the
	// centroid and the midpoint of the longest chord.
	EllipseCentrumTolerancePx int `json:"ellipse_centrum_tolerance_px"`

	// EllipseTolerance is the relative band for the mirror symmetry probe.
	EllipseTolerance float64 `json:"ellipse_tolerance"`
}

// DefaultConfig returns the tolerances the classifier was tuned with.
func DefaultConfig() Config {
	return Config{
		GeneralTolerance:          0.25,
		CircleTolerance:           0.25,
		LineTolerancePx:           10.0,
		EllipseCentrumTolerancePx: 100,
		EllipseTolerance:          0.5,
	}
}

// Validate checks that every tolerance is in range.
func (c Config) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"general_tolerance", c.GeneralTolerance},
		{"circle_tolerance", c.CircleTolerance},
		{"ellipse_tolerance", c.EllipseTolerance},
	}
	for _, f := range fractions {
		if math.IsNaN(f.value) || f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	if math.IsNaN(c.LineTolerancePx) || math.IsInf(c.LineTolerancePx, 0) || c.LineTolerancePx < 0 {
		return fmt.Errorf("%w: line_tolerance_px must be a non-negative number, got %v", ErrInvalidConfig, c.LineTolerancePx)
	}
	if c.EllipseCentrumTolerancePx < 0 {
		return fmt.Errorf("%w: ellipse_centrum_tolerance_px must be non-negative, got %d", ErrInvalidConfig, c.EllipseCentrumTolerancePx)
	}
	return nil
}

// PassThreshold returns the minimum percentage for the circle test.
func (c Config) PassThreshold() int {
	return 100 - int(math.Round(100*c.GeneralTolerance))
}

// LineThreshold returns the minimum share of samples, in percent, that must
// lie near the chord for the line test to pass. It is not rounded.
func (c Config) LineThreshold() float64 {
	return 100 - 100*c.GeneralTolerance
}
