// Package core provides the runtime core tier of the dispatch engine.
// History keeps the most recent state changes of a machine for diagnostics.
// Thread-safe for concurrent access.
package core

import (
	"sync"
	"time"

	"github.com/comalice/tablefsm/internal/primitives"
)

// TransitionRecord describes one completed state change.
type TransitionRecord struct {
	MachineID  string             `json:"machineID" yaml:"machineID"`
	Transition string             `json:"transition" yaml:"transition"`
	From       primitives.StateID `json:"from" yaml:"from"`
	To         primitives.StateID `json:"to" yaml:"to"`
	Trigger    primitives.EventID `json:"trigger" yaml:"trigger"`
	Timestamp  time.Time          `json:"timestamp" yaml:"timestamp"`
}

// History is a bounded ring of TransitionRecords. The dispatch loop is the
// only writer; readers may be on any goroutine.
type History struct {
	mu      sync.RWMutex
	records []TransitionRecord
	next    int
	full    bool
}

// NewHistory creates a History keeping the last size records.
// A non-positive size yields a History that records nothing.
func NewHistory(size int) *History {
	if size < 0 {
		size = 0
	}
	return &History{records: make([]TransitionRecord, size)}
}

// Record appends rec, overwriting the oldest entry when full.
func (h *History) Record(rec TransitionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) == 0 {
		return
	}
	h.records[h.next] = rec
	h.next = (h.next + 1) % len(h.records)
	if h.next == 0 {
		h.full = true
	}
}

// Snapshot returns the recorded entries, oldest first.
func (h *History) Snapshot() []TransitionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.full {
		return append([]TransitionRecord(nil), h.records[:h.next]...)
	}
	out := make([]TransitionRecord, 0, len(h.records))
	out = append(out, h.records[h.next:]...)
	out = append(out, h.records[:h.next]...)
	return out
}

// Clear drops every recorded entry.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}
