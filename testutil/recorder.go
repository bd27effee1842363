// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"fmt"
	"sync"

	"github.com/comalice/tablefsm"
)

// Call is one recorded callback invocation.
type Call struct {
	Tag      string
	Event    tablefsm.EventID
	Current  tablefsm.StateID
	Previous tablefsm.StateID
}

func (c Call) String() string {
	return fmt.Sprintf("%s@%d cur=%d prev=%d", c.Tag, c.Event, c.Current, c.Previous)
}

// Recorder hands out callbacks that record what they observed.
// Safe for use from the dispatch goroutine and the test goroutine.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Callback returns a callback that records tag and returns status.
func (r *Recorder) Callback(tag string, status tablefsm.Status) tablefsm.Callback {
	return func(fsm tablefsm.Context, evt tablefsm.EventID) tablefsm.Status {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call{
			Tag:      tag,
			Event:    evt,
			Current:  fsm.CurrentState(),
			Previous: fsm.PreviousState(),
		})
		return status
	}
}

// OK is Callback(tag, StatusOK).
func (r *Recorder) OK(tag string) tablefsm.Callback {
	return r.Callback(tag, tablefsm.StatusOK)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Tags returns the recorded tags in order.
func (r *Recorder) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := make([]string, len(r.calls))
	for i, c := range r.calls {
		tags[i] = c.Tag
	}
	return tags
}

// Count returns how many calls carried tag.
func (r *Recorder) Count(tag string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Tag == tag {
			n++
		}
	}
	return n
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Traced returns a state whose enter, exit and rejection callbacks record
// "<name>.enter", "<name>.exit" and "<name>.rejected".
func (r *Recorder) Traced(name string, id tablefsm.StateID) tablefsm.StateConfig {
	return tablefsm.StateConfig{
		Name:            name,
		ID:              id,
		OnEnter:         r.OK(name + ".enter"),
		OnExit:          r.OK(name + ".exit"),
		OnEventRejected: r.OK(name + ".rejected"),
	}
}
