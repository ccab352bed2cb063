// Package history keeps the shapes classified during the lifetime of the
// process.
//
// Entries live in memory only and are lost on exit. Log is safe for
// concurrent use by multiple goroutines.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// Entry is one classified trace.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`

	// RecordedAt is when the entry was added.
	RecordedAt time.Time `json:"recorded_at"`

	// Points is the number of samples in the trace.
	Points int `json:"points"`

	// Trace is a copy of the classified samples.
	Trace []geometry.Point `json:"trace,omitempty"`

	// Result is the classification outcome.
	Result detection.Result `json:"result"`

	// Label is Result rendered as "CIRCLE (92%)".
	Label string `json:"label"`
}

// Log is an append-only list of classified traces with an optional size
// limit. When the limit is reached the oldest entry is dropped.
//
// # Memory Management
//
// Entries keep a copy of their trace. Long-running processes should set a
// limit or call Clear periodically.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	now     func() time.Time
}

// NewLog creates an empty log. A limit of zero or less keeps every entry.
func NewLog(limit int) *Log {
	return &Log{limit: limit, now: time.Now}
}

// Add records a classified trace and returns the new entry.
// The trace is copied; the caller may reuse its slice.
func (l *Log) Add(trace []geometry.Point, result detection.Result) Entry {
	entry := Entry{
		ID:     uuid.NewString(),
		Points: len(trace),
		Trace:  append([]geometry.Point(nil), trace...),
		Result: result,
		Label:  result.String(),
	}

	l.mu.Lock()
	entry.RecordedAt = l.now()
	l.entries = append(l.entries, entry)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append([]Entry(nil), l.entries[len(l.entries)-l.limit:]...)
	}
	l.mu.Unlock()

	return entry
}

// Get returns the entry with the given ID.
func (l *Log) Get(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns a snapshot of every entry, oldest first.
func (l *Log) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

// Counts returns how many entries carry each shape.
func (l *Log) Counts() map[detection.Shape]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	counts := make(map[detection.Shape]int)
	for _, e := range l.entries {
		counts[e.Result.Shape]++
	}
	return counts
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes every entry and returns how many were removed.
func (l *Log) Clear() int {
	l.mu.Lock()
	n := len(l.entries)
	l.entries = nil
	l.mu.Unlock()
	return n
}
