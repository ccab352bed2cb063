package detection

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

func newTestClassifier(t *testing.T, cfg Config) *Classifier {
	t.Helper()
	c, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	return c
}

func TestClassify_RegularPolygons(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	for _, radius := range []int{20, 50, 150, 400} {
		for _, n := range []int{20, 24, 36, 64} {
			t.Run(fmt.Sprintf("r%d_n%d", radius, n), func(t *testing.T) {
				result, err := c.Classify(regularPolygon(500, 400, radius, n))
				if err != nil {
					t.Fatalf("Classify failed: %v", err)
				}
				if result.Shape != Circle {
					t.Fatalf("got %v, want circle", result)
				}
				if result.Confidence < 75 {
					t.Errorf("confidence %d below 75", result.Confidence)
				}
			})
		}
	}
}

func TestClassify_HorizontalLine(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	result, err := c.Classify(horizontalStroke())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	want := Result{Shape: Line, Confidence: 100, Basis: Line}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_Ellipses(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	tests := []struct {
		name    string
		a, b, n int
	}{
		{"2:1 with 40 samples", 200, 100, 40},
		{"2:1 with 41 samples", 200, 100, 41},
		{"large 2:1", 400, 200, 40},
		{"wide", 240, 100, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(ellipseTrace(500, 400, tt.a, tt.b, tt.n))
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if result.Shape != Ellipse {
				t.Fatalf("got %v, want ellipse", result)
			}
			if result.Confidence < 75 || result.Confidence > 100 {
				t.Errorf("confidence %d outside [75, 100]", result.Confidence)
			}
		})
	}
}

func TestClassify_EllipseStartingElsewhere(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	trace := ellipseTrace(500, 400, 200, 100, 40)
	rotated := append(append([]geometry.Point{}, trace[10:]...), trace[:10]...)

	result, err := c.Classify(rotated)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Shape != Ellipse {
		t.Errorf("got %v, want ellipse", result)
	}
}

func TestClassify_Scribbles(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	tests := []struct {
		name      string
		trace     []geometry.Point
		wantBasis Shape
	}{
		{"spiral", spiralScribble(), Ellipse},
		{"lightning bolt", boltScribble(), Ellipse},
		{"figure eight", figureEightScribble(), Ellipse},
		{"L stroke", lStroke(), Line},
		{"comma", commaStroke(), Circle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(tt.trace)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if result.Shape != Unknown {
				t.Fatalf("got %v, want unknown", result)
			}
			if result.Basis != tt.wantBasis {
				t.Errorf("basis: got %v, want %v", result.Basis, tt.wantBasis)
			}
		})
	}
}

func TestClassify_CommaReusesCirclePercent(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	a, err := c.Analyze(commaStroke())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Result.Confidence != a.Circle.PassesPercent {
		t.Errorf("confidence %d, want circle percent %d", a.Result.Confidence, a.Circle.PassesPercent)
	}
	if a.Result.Confidence != 20 {
		t.Errorf("confidence: got %d, want 20", a.Result.Confidence)
	}
	if a.Ellipse != nil {
		t.Error("ellipse probe should not run when the centrum is too far")
	}
}

func TestClassify_CircleThresholdInclusive(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	result, err := c.Classify(circleAtThreshold())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	want := Result{Shape: Circle, Confidence: 75, Basis: Circle}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	// Tightening the general tolerance moves the threshold to 76.
	cfg := DefaultConfig()
	cfg.GeneralTolerance = 0.24
	strict := newTestClassifier(t, cfg)
	result, err = strict.Classify(circleAtThreshold())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Shape == Circle {
		t.Errorf("got %v with threshold 76, want not circle", result)
	}
}

func TestClassify_LineThreshold(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	tests := []struct {
		name  string
		trace []geometry.Point
		want  Result
	}{
		{
			"three of four on the line",
			[]geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 150, Y: 40}, {X: 300, Y: 0}},
			Result{Shape: Line, Confidence: 75, Basis: Line},
		},
		{
			"three of five on the line",
			[]geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 150, Y: 40}, {X: 200, Y: 35}, {X: 300, Y: 0}},
			Result{Shape: Unknown, Confidence: 60, Basis: Line},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(tt.trace)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, result); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_LineThresholdUnrounded(t *testing.T) {
	threeOfFour := []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 150, Y: 40}, {X: 300, Y: 0}}
	twoOfThree := []geometry.Point{{X: 0, Y: 0}, {X: 150, Y: 40}, {X: 300, Y: 0}}

	tests := []struct {
		name      string
		tolerance float64
		trace     []geometry.Point
		want      Result
	}{
		// 75% falls short of 75.5%.
		{"75 percent at 0.245", 0.245, threeOfFour, Result{Shape: Unknown, Confidence: 75, Basis: Line}},
		// 66.7% reaches 66.5% although the reported percentage is 66.
		{"two thirds at 0.335", 0.335, twoOfThree, Result{Shape: Line, Confidence: 66, Basis: Line}},
		{"two thirds at 0.34", 0.34, twoOfThree, Result{Shape: Line, Confidence: 66, Basis: Line}},
		{"two thirds at 0.33", 0.33, twoOfThree, Result{Shape: Unknown, Confidence: 66, Basis: Line}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GeneralTolerance = tt.tolerance
			result, err := newTestClassifier(t, cfg).Classify(tt.trace)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, result); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())
	trace := []geometry.Point{{X: 0, Y: 0}, {X: 3e9, Y: 3e9}, {X: 5, Y: 9}}

	if _, err := c.Classify(trace); !errors.Is(err, geometry.ErrOutOfRange) {
		t.Errorf("Classify: got %v, want ErrOutOfRange", err)
	}
	if _, err := c.Analyze(trace); !errors.Is(err, geometry.ErrOutOfRange) {
		t.Errorf("Analyze: got %v, want ErrOutOfRange", err)
	}
}

func TestClassify_LineTolerance(t *testing.T) {
	trace := []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 12}, {X: 200, Y: 12}, {X: 300, Y: 0}}

	result, err := newTestClassifier(t, DefaultConfig()).Classify(trace)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Shape != Unknown || result.Confidence != 50 {
		t.Errorf("default tolerance: got %v, want UNKNOWN (50%% Line)", result)
	}

	cfg := DefaultConfig()
	cfg.LineTolerancePx = 15
	result, err = newTestClassifier(t, cfg).Classify(trace)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Shape != Line || result.Confidence != 100 {
		t.Errorf("15px tolerance: got %v, want LINE (100%%)", result)
	}
}

func TestClassify_InsufficientSamples(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	for _, trace := range [][]geometry.Point{nil, {}, {{X: 5, Y: 5}}} {
		result, err := c.Classify(trace)
		if !errors.Is(err, ErrInsufficientSamples) {
			t.Errorf("%d point(s): expected ErrInsufficientSamples, got %v", len(trace), err)
		}
		if result.Shape != Undefined {
			t.Errorf("%d point(s): expected zero result, got %v", len(trace), result)
		}
	}
}

func TestClassify_StationaryTrace(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	result, err := c.Classify([]geometry.Point{{X: 7, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 7}})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	want := Result{Shape: Unknown, Confidence: 0, Basis: Unknown, Reason: ErrDegenerateLine.Error()}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_TwoPoints(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	// Both samples sit at the same distance from the centroid.
	result, err := c.Classify([]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Shape != Circle || result.Confidence != 100 {
		t.Errorf("got %v, want CIRCLE (100%%)", result)
	}
}

func TestClassify_DoesNotModifyTrace(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	trace := ellipseTrace(500, 400, 200, 100, 40)
	before := append([]geometry.Point{}, trace...)
	if _, err := c.Classify(trace); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if diff := cmp.Diff(before, trace); diff != "" {
		t.Errorf("trace modified (-before +after):\n%s", diff)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	traces := [][]geometry.Point{
		regularPolygon(300, 300, 80, 30),
		horizontalStroke(),
		ellipseTrace(500, 400, 200, 100, 40),
		spiralScribble(),
	}

	for i, trace := range traces {
		first, err := c.Classify(trace)
		if err != nil {
			t.Fatalf("trace %d: Classify failed: %v", i, err)
		}
		for j := 0; j < 5; j++ {
			again, _ := c.Classify(trace)
			if again != first {
				t.Errorf("trace %d: got %v then %v", i, first, again)
			}
		}
	}
}

func TestClassify_Concurrent(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())

	traces := [][]geometry.Point{
		regularPolygon(300, 300, 80, 30),
		horizontalStroke(),
		ellipseTrace(500, 400, 200, 100, 40),
		boltScribble(),
	}
	want := make([]Result, len(traces))
	for i, trace := range traces {
		want[i], _ = c.Classify(trace)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for g := 0; g < 10; g++ {
		for i := range traces {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got, err := c.Classify(traces[i])
				if err != nil {
					errs <- err
					return
				}
				if got != want[i] {
					errs <- fmt.Errorf("trace %d: got %v, want %v", i, got, want[i])
				}
			}(i)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEllipseImperfection(t *testing.T) {
	tests := []struct {
		name                       string
		grow, shrink, errs, passes int
		want                       float64
		wantErr                    bool
	}{
		{"perfect", 0, 10, 0, 10, 0, false},
		{"half errors", 0, 4, 2, 2, 0.25, false},
		{"all bad", 3, 0, 3, 0, 1, false},
		{"no growth samples", 0, 0, 1, 1, 0, true},
		{"no symmetry samples", 1, 1, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, got, err := ellipseImperfection(tt.grow, tt.shrink, tt.errs, tt.passes)
			if tt.wantErr {
				if !errors.Is(err, ErrDegenerateEllipse) {
					t.Errorf("expected ErrDegenerateEllipse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("imperfection: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewClassifier_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GeneralTolerance = 1.5
	if _, err := NewClassifier(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
