package capture

import (
	"errors"
	"sync"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// ErrSourceUnavailable is returned when a position source cannot report a
// position.
var ErrSourceUnavailable = errors.New("pointer position unavailable")

// PositionSource reports the current pointer position.
type PositionSource interface {
	Position() (geometry.Point, error)
}

// PositionFunc adapts a function to PositionSource.
type PositionFunc func() (geometry.Point, error)

// Position calls f.
func (f PositionFunc) Position() (geometry.Point, error) {
	return f()
}

// ScriptedSource replays a fixed sequence of positions, one per call.
// After the script runs out it keeps reporting the last position.
//
// ScriptedSource is safe for concurrent use.
type ScriptedSource struct {
	mu      sync.Mutex
	samples []geometry.Point
	next    int
}

// NewScriptedSource returns a source that replays samples in order.
func NewScriptedSource(samples []geometry.Point) *ScriptedSource {
	return &ScriptedSource{samples: samples}
}

// Position returns the next scripted sample.
func (s *ScriptedSource) Position() (geometry.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return geometry.Point{}, ErrSourceUnavailable
	}
	if s.next >= len(s.samples) {
		return s.samples[len(s.samples)-1], nil
	}
	p := s.samples[s.next]
	s.next++
	return p, nil
}

// Remaining returns the number of samples not yet replayed.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples) - s.next
}
