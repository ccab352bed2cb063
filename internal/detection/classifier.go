package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// Classifier assigns shape labels to finished traces.
//
// The zero value is not usable; create one with NewClassifier.
type Classifier struct {
	cfg Config
}

// NewClassifier returns a classifier using cfg.
//
// Returns ErrInvalidConfig if any tolerance is out of range.
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg}, nil
}

// Config returns the classifier's tolerances.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify labels a finished trace.
//
// The trace is read, never modified. Returns ErrInsufficientSamples when the
// trace has fewer than two points; every other input yields a Result.
func (c *Classifier) Classify(trace []geometry.Point) (Result, error) {
	a, err := c.Analyze(trace)
	if err != nil {
		return Result{}, err
	}
	return a.Result, nil
}

// EllipseProbe records the symmetry probe of the ellipse test.
type EllipseProbe struct {
	// AxisMidpoint is the midpoint of the longest chord.
	AxisMidpoint geometry.Point `json:"axis_midpoint"`

	// CentrumDistance is the distance from the centroid to AxisMidpoint.
	CentrumDistance int `json:"centrum_distance"`

	// Steps is the number of probes, half the trace length.
	Steps int `json:"steps"`

	// Step is the probe increment along the chord.
	Step geometry.Point `json:"step"`

	Grow   int `json:"grow"`
	Shrink int `json:"shrink"`
	Errors int `json:"errors"`
	Passes int `json:"passes"`

	GrowFactor   float64 `json:"grow_factor"`
	ErrorFactor  float64 `json:"error_factor"`
	Imperfection float64 `json:"imperfection"`
}

// Analysis holds every measurement taken while classifying a trace.
// Fields for tests that were not reached stay nil or zero.
type Analysis struct {
	Points   int            `json:"points"`
	Centroid geometry.Point `json:"centroid"`

	// Circle holds the reference statistics around the centroid.
	Circle        geometry.ReferenceDistanceStats `json:"circle"`
	PassThreshold int                             `json:"pass_threshold"`

	// RadiusMean and RadiusStdDev are the untruncated centroid distances.
	RadiusMean   float64 `json:"radius_mean"`
	RadiusStdDev float64 `json:"radius_stddev"`

	Distances        *geometry.DistanceSet `json:"distances,omitempty"`
	StartEndDistance int                   `json:"start_end_distance"`

	// LinePercent is set when the line precondition held. The line passes
	// when the untruncated share reaches LineThreshold.
	LinePercent   *int    `json:"line_percent,omitempty"`
	LineThreshold float64 `json:"line_threshold"`

	Ellipse *EllipseProbe `json:"ellipse,omitempty"`

	Result Result `json:"result"`
}

// Analyze classifies a trace and returns the intermediate measurements with
// the result.
func (c *Classifier) Analyze(trace []geometry.Point) (*Analysis, error) {
	if len(trace) < 2 {
		return nil, fmt.Errorf("classify trace of %d point(s): %w", len(trace), ErrInsufficientSamples)
	}
	if err := geometry.CheckBounds(trace); err != nil {
		return nil, fmt.Errorf("classify trace: %w", err)
	}

	a := &Analysis{
		Points:        len(trace),
		PassThreshold: c.cfg.PassThreshold(),
		LineThreshold: c.cfg.LineThreshold(),
	}

	// A trace that never moved has no line or chord to measure against. This
	// check runs ahead of the circle test on purpose: every sample sits on
	// the centroid, which the circle test would score as CIRCLE (100%).
	if geometry.DistinctCount(trace, 2) < 2 {
		a.Centroid = trace[0]
		a.Result = degenerate(ErrDegenerateLine)
		return a, nil
	}

	centroid, err := geometry.Centroid(trace)
	if err != nil {
		return nil, err
	}
	a.Centroid = centroid
	a.RadiusMean, a.RadiusStdDev = radiusSpread(trace, centroid)

	// 1. Circle
	a.Circle = geometry.ReferenceStats(trace, centroid, c.cfg.CircleTolerance)
	circlePercent := a.Circle.PassesPercent
	if circlePercent >= a.PassThreshold {
		a.Result = Result{Shape: Circle, Confidence: circlePercent, Basis: Circle}
		return a, nil
	}

	// 2. Line
	distances := geometry.AllPairsExtremes(trace)
	a.Distances = &distances
	first, last := trace[0], trace[len(trace)-1]
	a.StartEndDistance = first.Distance(last)
	if distances.Max == a.StartEndDistance {
		if first == last {
			a.Result = degenerate(ErrDegenerateLine)
			return a, nil
		}
		passed := c.linePasses(trace, first, last)
		linePercent := 100 * passed / len(trace)
		a.LinePercent = &linePercent
		if 100*float64(passed)/float64(len(trace)) >= a.LineThreshold {
			a.Result = Result{Shape: Line, Confidence: linePercent, Basis: Line}
		} else {
			a.Result = Result{Shape: Unknown, Confidence: linePercent, Basis: Line}
		}
		return a, nil
	}

	// 3. Ellipse
	p0, p1 := distances.MaxPair[0], distances.MaxPair[1]
	if p0 == p1 {
		a.Result = degenerate(ErrDegenerateLine)
		return a, nil
	}
	midpoint, err := p0.Add(p1).Div(2)
	if err != nil {
		return nil, err
	}
	probe := &EllipseProbe{
		AxisMidpoint:    midpoint,
		CentrumDistance: centroid.Distance(midpoint),
	}
	if probe.CentrumDistance > c.cfg.EllipseCentrumTolerancePx {
		// 4. Nothing matched.
		a.Result = Result{Shape: Unknown, Confidence: circlePercent, Basis: Circle}
		return a, nil
	}
	a.Ellipse = probe

	if err := c.probeEllipse(trace, centroid, p0, p1, probe); err != nil {
		a.Result = degenerate(err)
		return a, nil
	}

	confidence := int(100 * (1 - probe.Imperfection))
	if probe.Imperfection <= c.cfg.GeneralTolerance {
		a.Result = Result{Shape: Ellipse, Confidence: confidence, Basis: Ellipse}
	} else {
		a.Result = Result{Shape: Unknown, Confidence: confidence, Basis: Ellipse}
	}
	return a, nil
}

// linePercent returns the percentage of samples within LineTolerancePx of
// the line through first and last.
func (c *Classifier) linePasses(trace []geometry.Point, first, last geometry.Point) int {
	passed := 0
	for _, p := range trace {
		if p.DistanceToLine(first, last) <= c.cfg.LineTolerancePx {
			passed++
		}
	}
	return passed
}

// probeEllipse walks len(trace)/2 probes from the chord midpoint in steps of
// (centroid - p1) / steps and fills the counters and factors of probe.
//
// For each probe, the nearest sample's height above the chord is compared
// with the height of the sample nearest to the probe's mirror, and with the
// previous probe's height.
func (c *Classifier) probeEllipse(trace []geometry.Point, centroid, p0, p1 geometry.Point, probe *EllipseProbe) error {
	probe.Steps = len(trace) / 2
	step, err := centroid.Sub(p1).Div(probe.Steps)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDegenerateEllipse, err)
	}
	probe.Step = step

	tolerance := c.cfg.EllipseTolerance
	last := math.Inf(1)
	for i := 1; i <= probe.Steps; i++ {
		at := probe.AxisMidpoint.Add(step.Scale(i))

		// A sample lying exactly on the probe counts as its nearest.
		nearest, _, _ := geometry.Nearest(trace, at)
		height := nearest.DistanceToLine(p0, p1)

		mirror := at.Add(at.Sub(nearest).Scale(2))
		mirrored, _, _ := geometry.Nearest(trace, mirror)
		mirrorHeight := mirrored.DistanceToLine(p0, p1)

		if mirrorHeight > height*(1+tolerance) || mirrorHeight < height*(1-tolerance) {
			probe.Errors++
		} else {
			probe.Passes++
		}

		if height > last {
			probe.Grow++
		} else {
			probe.Shrink++
		}
		last = height
	}

	probe.GrowFactor, probe.ErrorFactor, probe.Imperfection, err = ellipseImperfection(probe.Grow, probe.Shrink, probe.Errors, probe.Passes)
	return err
}

// ellipseImperfection averages the share of growing heights and the share
// of asymmetric probes.
func ellipseImperfection(grow, shrink, errs, passes int) (growFactor, errorFactor, imperfection float64, err error) {
	if grow+shrink == 0 || errs+passes == 0 {
		return 0, 0, 0, ErrDegenerateEllipse
	}
	growFactor = float64(grow) / float64(grow+shrink)
	errorFactor = float64(errs) / float64(errs+passes)
	return growFactor, errorFactor, (growFactor + errorFactor) / 2, nil
}

// radiusSpread returns the mean and standard deviation of the exact
// distances from centroid to each sample.
func radiusSpread(trace []geometry.Point, centroid geometry.Point) (mean, stddev float64) {
	radii := make([]float64, len(trace))
	for i, p := range trace {
		radii[i] = p.Sub(centroid).Magnitude()
	}
	return stat.MeanStdDev(radii, nil)
}
