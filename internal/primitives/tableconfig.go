// Package primitives defines the foundational data structures for the dispatch engine.
//
// TableConfig groups the three registration tables of a machine: states,
// transitions and free events. Each is an ordered slice; order is
// significant because every lookup is first-match-wins.
// Validation ensures the initial state is registered, reserved identifiers
// are not used and every transition endpoint names a registered state.

package primitives

import (
	"errors"
	"fmt"
)

// TableConfig defines the complete registration tables for one machine.
type TableConfig struct {
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	ID          string             `json:"id" yaml:"id"`
	Initial     StateID            `json:"initial,omitempty" yaml:"initial,omitempty"`
	States      []StateConfig      `json:"states" yaml:"states"`
	Transitions []TransitionConfig `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	FreeEvents  []FreeEventConfig  `json:"free_events,omitempty" yaml:"free_events,omitempty"`
}

// InitialState returns the configured initial state, or DefaultInitialState
// when none is set.
func (t *TableConfig) InitialState() StateID {
	if t.Initial == AnyState {
		return DefaultInitialState
	}
	return t.Initial
}

// Validate validates the table:
// - Non-empty ID and at least one state
// - Initial state is registered
// - No state uses the wildcard id
// - Transition triggers are not NoEvent and endpoints are registered
// - Free events have a trigger and a bound callback
//
// Every problem is reported; the result is a joined error.
// Duplicate ids are not errors, see Duplicates.
func (t *TableConfig) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("table ID is required"))
	}
	if len(t.States) == 0 {
		return errors.Join(append(errs, errors.New("states table is required and cannot be empty"))...)
	}
	if _, ok := t.FindState(t.InitialState()); !ok {
		errs = append(errs, fmt.Errorf("initial state %d not found in states", t.InitialState()))
	}

	for i := range t.States {
		s := &t.States[i]
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("state %q (index %d): %w", s.Name, i, err))
		}
	}

	for i := range t.Transitions {
		tr := &t.Transitions[i]
		if err := tr.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("transition %q (index %d): %w", tr.Name, i, err))
			continue
		}
		if tr.ReturnPrevious {
			continue
		}
		if tr.From != AnyState {
			if _, ok := t.FindState(tr.From); !ok {
				errs = append(errs, fmt.Errorf("transition %q (index %d): source state %d not found", tr.Name, i, tr.From))
			}
		}
		if _, ok := t.FindState(tr.To); !ok {
			errs = append(errs, fmt.Errorf("transition %q (index %d): destination state %d not found", tr.Name, i, tr.To))
		}
	}

	for i := range t.FreeEvents {
		fe := &t.FreeEvents[i]
		if err := fe.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("free event %q (index %d): %w", fe.Name, i, err))
		}
	}

	return errors.Join(errs...)
}

// Duplicates lists identifiers registered more than once: state ids and
// free-event triggers. The engine never rejects these (the first entry
// wins); the list is meant for linting.
func (t *TableConfig) Duplicates() []string {
	var out []string

	seenStates := make(map[StateID]string, len(t.States))
	for _, s := range t.States {
		if first, ok := seenStates[s.ID]; ok {
			out = append(out, fmt.Sprintf("state id %d registered by %q and %q", s.ID, first, s.Name))
			continue
		}
		seenStates[s.ID] = s.Name
	}

	seenFree := make(map[EventID]string, len(t.FreeEvents))
	for _, fe := range t.FreeEvents {
		if first, ok := seenFree[fe.Trigger]; ok {
			out = append(out, fmt.Sprintf("free event trigger %d registered by %q and %q", fe.Trigger, first, fe.Name))
			continue
		}
		seenFree[fe.Trigger] = fe.Name
	}

	return out
}

// FindState returns the first state registered under id.
func (t *TableConfig) FindState(id StateID) (*StateConfig, bool) {
	for i := range t.States {
		if t.States[i].ID == id {
			return &t.States[i], true
		}
	}
	return nil, false
}

// Clone returns a copy whose slices do not alias t.
func (t *TableConfig) Clone() TableConfig {
	c := *t
	c.States = append([]StateConfig(nil), t.States...)
	c.Transitions = append([]TransitionConfig(nil), t.Transitions...)
	c.FreeEvents = append([]FreeEventConfig(nil), t.FreeEvents...)
	return c
}
