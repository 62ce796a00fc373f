// Package watch runs a filesystem watcher over a project root and keeps a
// fresh dependency analysis on disk for other processes to read.
package watch

import (
	"sync"
	"time"

	"codegnosis/scanner"
)

// Event records a single filesystem change observed by the daemon.
type Event struct {
	Time      time.Time `json:"time"`
	Op        string    `json:"op"`
	Path      string    `json:"path"`
	Lines     int       `json:"lines,omitempty"`
	LineDelta int       `json:"lineDelta,omitempty"`
	SizeDelta int64     `json:"sizeDelta,omitempty"`
}

// FileState is the last observed size and line count for a tracked file.
type FileState struct {
	Lines int
	Size  int64
}

// Tracker holds the daemon's in-memory view of the project between rescans.
type Tracker struct {
	mu     sync.Mutex
	Root   string
	Report *scanner.Report
	Files  map[string]*FileState
	Events []Event
}

// maxEvents bounds the in-memory event ring.
const maxEvents = 200

// NewTracker returns an empty tracker for root.
func NewTracker(root string) *Tracker {
	return &Tracker{
		Root:  root,
		Files: make(map[string]*FileState),
	}
}

// Record appends an event, trimming the ring when it grows past maxEvents.
func (t *Tracker) Record(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Events = append(t.Events, ev)
	if len(t.Events) > maxEvents {
		t.Events = t.Events[len(t.Events)-maxEvents:]
	}
}

// Recent returns up to n of the most recent events, newest last.
func (t *Tracker) Recent(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > len(t.Events) {
		n = len(t.Events)
	}
	out := make([]Event, n)
	copy(out, t.Events[len(t.Events)-n:])
	return out
}

// EventCount returns how many events are held in the ring.
func (t *Tracker) EventCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Events)
}

// SetReport swaps in the result of a completed rescan.
func (t *Tracker) SetReport(r *scanner.Report) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Report = r
}

// CurrentReport returns the latest analysis, or nil before the first scan.
func (t *Tracker) CurrentReport() *scanner.Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Report
}
