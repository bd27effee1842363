// Package builder registers tables declaratively: each constructor returns
// an Entry, and Table applies the entries in the order given. Order is
// kept exactly, since every lookup in the engine is first-match-wins.
//
//	table, err := builder.Table("door",
//		builder.State("closed", 1, builder.OnEnter(lightOff)),
//		builder.State("open", 2, builder.OnEnter(lightOn)),
//		builder.Transition("open", 1, 2, evOpen),
//		builder.Transition("close", 2, 1, evClose),
//		builder.AnyState("alarm", 2, evAlarm),
//		builder.ReturnPrevious("undo", evUndo),
//		builder.FreeEvent("heartbeat", evBeat, beat),
//	)
package builder

import (
	"github.com/comalice/tablefsm" // the core package
)

// StateID shortcut
type ID = tablefsm.StateID

// Entry is one registration.
type Entry func(*tablefsm.TableConfig)

// Option pattern for configuring states
type Option func(*tablefsm.StateConfig)

// Table applies entries in order and validates the result.
func Table(id string, entries ...Entry) (tablefsm.TableConfig, error) {
	t := tablefsm.TableConfig{ID: id}
	for _, e := range entries {
		e(&t)
	}
	if err := t.Validate(); err != nil {
		return tablefsm.TableConfig{}, err
	}
	return t, nil
}

// MustTable is Table for package-level tables; it panics on error.
func MustTable(id string, entries ...Entry) tablefsm.TableConfig {
	t, err := Table(id, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Initial sets the initial state. Without it the state with id 1 is initial.
func Initial(id ID) Entry {
	return func(t *tablefsm.TableConfig) { t.Initial = id }
}

// State registers a state.
func State(name string, id ID, opts ...Option) Entry {
	return func(t *tablefsm.TableConfig) {
		s := tablefsm.StateConfig{Name: name, ID: id}
		for _, opt := range opts {
			opt(&s)
		}
		t.States = append(t.States, s)
	}
}

// OnEnter sets the callback run when the state is entered.
func OnEnter(cb tablefsm.Callback) Option {
	return func(s *tablefsm.StateConfig) { s.OnEnter = cb }
}

// OnExit sets the callback run when the state is left.
func OnExit(cb tablefsm.Callback) Option {
	return func(s *tablefsm.StateConfig) { s.OnExit = cb }
}

// OnRejected sets the callback run for events the state cannot handle.
func OnRejected(cb tablefsm.Callback) Option {
	return func(s *tablefsm.StateConfig) { s.OnEventRejected = cb }
}

// Transition registers from -> to on trigger.
func Transition(name string, from, to ID, trigger tablefsm.EventID) Entry {
	return func(t *tablefsm.TableConfig) {
		t.Transitions = append(t.Transitions, tablefsm.TransitionConfig{
			Name: name, From: from, To: to, Trigger: trigger,
		})
	}
}

// AnyState registers a wildcard transition to `to` on trigger.
func AnyState(name string, to ID, trigger tablefsm.EventID) Entry {
	return Transition(name, tablefsm.AnyState, to, trigger)
}

// ReturnPrevious registers a return-to-previous transition on trigger.
func ReturnPrevious(name string, trigger tablefsm.EventID) Entry {
	return func(t *tablefsm.TableConfig) {
		t.Transitions = append(t.Transitions, tablefsm.TransitionConfig{
			Name: name, Trigger: trigger, ReturnPrevious: true,
		})
	}
}

// FreeEvent registers a state-independent handler for trigger.
func FreeEvent(name string, trigger tablefsm.EventID, cb tablefsm.Callback) Entry {
	return func(t *tablefsm.TableConfig) {
		t.FreeEvents = append(t.FreeEvents, tablefsm.FreeEventConfig{
			Name: name, Trigger: trigger, Callback: cb,
		})
	}
}
