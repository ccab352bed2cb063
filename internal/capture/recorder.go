package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// Status is the state reported after each poll cycle.
type Status int

const (
	// Waiting means the pointer has not moved since the baseline.
	Waiting Status = iota
	// Running means a trace is being recorded.
	Running
	// Finished means the pointer stayed still for EndTimeout cycles.
	Finished
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Config controls the sampling loop.
type Config struct {
	// FrameRate is the number of poll cycles per second used by Run.
	FrameRate int `json:"framerate_fps"`

	// EndTimeout is the number of consecutive unchanged cycles that
	// finish a trace.
	EndTimeout int `json:"end_timeout_cycles"`
}

// DefaultConfig returns 20 polls per second and a 5-cycle end timeout.
func DefaultConfig() Config {
	return Config{FrameRate: 20, EndTimeout: 5}
}

// Validate checks that both settings are positive.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("framerate must be positive, got %d", c.FrameRate)
	}
	if c.EndTimeout <= 0 {
		return fmt.Errorf("end timeout must be positive, got %d", c.EndTimeout)
	}
	return nil
}

// Interval returns the time between poll cycles.
func (c Config) Interval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Recorder accumulates one trace from a position source.
type Recorder struct {
	source PositionSource
	cfg    Config

	initialized bool
	running     bool
	last        geometry.Point
	unchanged   int
	trace       []geometry.Point
}

// NewRecorder returns a recorder polling source.
func NewRecorder(source PositionSource, cfg Config) (*Recorder, error) {
	if source == nil {
		return nil, fmt.Errorf("nil position source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Recorder{source: source, cfg: cfg}, nil
}

// Update performs one poll cycle.
//
// The first cycle only records the baseline position. A changed position
// is appended to the trace and resets the unchanged counter. While a trace
// is running, each unchanged cycle counts toward EndTimeout.
func (r *Recorder) Update() (Status, error) {
	pos, err := r.source.Position()
	if err != nil {
		return Waiting, fmt.Errorf("poll position: %w", err)
	}

	if !r.initialized {
		r.initialized = true
		r.last = pos
		return Waiting, nil
	}

	if pos != r.last {
		r.running = true
		r.unchanged = 0
		r.trace = append(r.trace, pos)
		r.last = pos
		return Running, nil
	}

	if !r.running {
		return Waiting, nil
	}

	r.unchanged++
	if r.unchanged >= r.cfg.EndTimeout {
		return Finished, nil
	}
	return Running, nil
}

// Len returns the number of samples recorded so far.
func (r *Recorder) Len() int {
	return len(r.trace)
}

// Finish hands out the recorded trace and prepares the recorder for the
// next one. The last position becomes the new baseline.
func (r *Recorder) Finish() []geometry.Point {
	trace := r.trace
	r.trace = nil
	r.running = false
	r.unchanged = 0
	return trace
}

// Run polls at the configured frame rate until a trace finishes and
// returns it. It returns ctx.Err() if ctx ends first and the first source
// error otherwise.
func (r *Recorder) Run(ctx context.Context) ([]geometry.Point, error) {
	ticker := time.NewTicker(r.cfg.Interval())
	defer ticker.Stop()

	for {
		status, err := r.Update()
		if err != nil {
			return nil, err
		}
		if status == Finished {
			return r.Finish(), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Replay feeds samples, one per poll cycle, through a fresh recorder and
// returns every trace that finished. A trace still running when the samples
// run out is returned as partial.
func Replay(samples []geometry.Point, cfg Config) (finished [][]geometry.Point, partial []geometry.Point, err error) {
	if len(samples) == 0 {
		return nil, nil, nil
	}
	source := NewScriptedSource(samples)
	r, err := NewRecorder(source, cfg)
	if err != nil {
		return nil, nil, err
	}

	for source.Remaining() > 0 {
		status, err := r.Update()
		if err != nil {
			return nil, nil, err
		}
		if status == Finished {
			finished = append(finished, r.Finish())
		}
	}
	if r.Len() > 0 {
		partial = r.Finish()
	}
	return finished, partial, nil
}
