package history

import (
	"sync"
	"testing"
	"time"

	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

func TestLogAdd(t *testing.T) {
	l := NewLog(0)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	trace := []geometry.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	entry := l.Add(trace, detection.Result{Shape: detection.Line, Confidence: 100, Basis: detection.Line})

	if entry.ID == "" {
		t.Error("entry ID is empty")
	}
	if !entry.RecordedAt.Equal(fixed) {
		t.Errorf("RecordedAt: got %v, want %v", entry.RecordedAt, fixed)
	}
	if entry.Points != 2 || entry.Label != "LINE (100%)" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// The log keeps its own copy.
	trace[0] = geometry.Point{X: 99, Y: 99}
	got, ok := l.Get(entry.ID)
	if !ok {
		t.Fatal("Get did not find the entry")
	}
	if got.Trace[0] != (geometry.Point{X: 1, Y: 2}) {
		t.Errorf("stored trace changed: %v", got.Trace)
	}
}

func TestLogLimit(t *testing.T) {
	l := NewLog(2)
	first := l.Add(nil, detection.Result{Shape: detection.Circle})
	l.Add(nil, detection.Result{Shape: detection.Line})
	l.Add(nil, detection.Result{Shape: detection.Ellipse})

	if l.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", l.Len())
	}
	if _, ok := l.Get(first.ID); ok {
		t.Error("oldest entry should have been dropped")
	}
	entries := l.List()
	if entries[0].Result.Shape != detection.Line || entries[1].Result.Shape != detection.Ellipse {
		t.Errorf("unexpected order: %v, %v", entries[0].Result.Shape, entries[1].Result.Shape)
	}
}

func TestLogCountsAndClear(t *testing.T) {
	l := NewLog(0)
	l.Add(nil, detection.Result{Shape: detection.Circle})
	l.Add(nil, detection.Result{Shape: detection.Circle})
	l.Add(nil, detection.Result{Shape: detection.Unknown})

	counts := l.Counts()
	if counts[detection.Circle] != 2 || counts[detection.Unknown] != 1 {
		t.Errorf("Counts: got %v", counts)
	}

	if n := l.Clear(); n != 3 {
		t.Errorf("Clear: got %d, want 3", n)
	}
	if l.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", l.Len())
	}
}

func TestLogConcurrentAccess(t *testing.T) {
	l := NewLog(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Add([]geometry.Point{{X: 1, Y: 1}}, detection.Result{Shape: detection.Circle})
		}()
		go func() {
			defer wg.Done()
			_ = l.List()
			_ = l.Counts()
		}()
	}
	wg.Wait()

	if l.Len() != 10 {
		t.Errorf("Len: got %d, want 10", l.Len())
	}
}
