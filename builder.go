package tablefsm

import (
	"fmt"
)

// MachineBuilder provides a fluent API for constructing tables using
// string names instead of numeric state and event ids.
//
// Ids are assigned sequentially from 1 in the order names are first seen;
// state and event ids are numbered independently. Registration order is
// preserved exactly as written, so first-match-wins lookups behave as the
// builder calls read.
type MachineBuilder struct {
	tableID     string
	initialName string
	nextState   StateID
	nextEvent   EventID
	stateIDs    map[string]StateID
	stateNames  map[StateID]string
	eventIDs    map[string]EventID
	eventNames  map[EventID]string
	declared    map[StateID]int // index into states
	states      []StateConfig
	transitions []TransitionConfig
	freeEvents  []FreeEventConfig
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b    *MachineBuilder
	id   StateID
	name string
}

// NewMachineBuilder creates a new builder. initialStateName names the state
// entered by Init; when empty, the first declared state is initial.
func NewMachineBuilder(tableID, initialStateName string) *MachineBuilder {
	return &MachineBuilder{
		tableID:     tableID,
		initialName: initialStateName,
		nextState:   1, // 0 is AnyState
		nextEvent:   1, // 0 is NoEvent
		stateIDs:    make(map[string]StateID),
		stateNames:  make(map[StateID]string),
		eventIDs:    make(map[string]EventID),
		eventNames:  make(map[EventID]string),
		declared:    make(map[StateID]int),
	}
}

// State declares a state, or returns the builder of an already declared one.
func (b *MachineBuilder) State(name string) *StateBuilder {
	id := b.assignState(name)
	if _, ok := b.declared[id]; !ok {
		b.declared[id] = len(b.states)
		b.states = append(b.states, StateConfig{Name: name, ID: id})
	}
	return &StateBuilder{b: b, id: id, name: name}
}

// Any adds a wildcard transition to targetName, taken from whatever state
// is current.
func (b *MachineBuilder) Any(eventName, targetName string) *MachineBuilder {
	evt := b.Event(eventName)
	to := b.assignState(targetName)
	b.transitions = append(b.transitions, TransitionConfig{
		Name:    fmt.Sprintf("* -> %s on %s", targetName, eventName),
		From:    AnyState,
		To:      to,
		Trigger: evt,
	})
	return b
}

// ReturnPrevious adds a return-to-previous transition on eventName.
func (b *MachineBuilder) ReturnPrevious(eventName string) *MachineBuilder {
	b.transitions = append(b.transitions, TransitionConfig{
		Name:           "back on " + eventName,
		Trigger:        b.Event(eventName),
		ReturnPrevious: true,
	})
	return b
}

// Free adds a free event handled by cb in every state.
func (b *MachineBuilder) Free(eventName string, cb Callback) *MachineBuilder {
	b.freeEvents = append(b.freeEvents, FreeEventConfig{
		Name:     eventName,
		Trigger:  b.Event(eventName),
		Callback: cb,
	})
	return b
}

// Event returns the id assigned to eventName, assigning one if needed.
func (b *MachineBuilder) Event(eventName string) EventID {
	if id, ok := b.eventIDs[eventName]; ok {
		return id
	}
	id := b.nextEvent
	b.nextEvent++
	b.eventIDs[eventName] = id
	b.eventNames[id] = eventName
	return id
}

// GetID returns the assigned StateID for a given state name.
// Returns AnyState if the name hasn't been seen.
func (b *MachineBuilder) GetID(name string) StateID {
	return b.stateIDs[name]
}

// GetName returns the name for a given StateID.
func (b *MachineBuilder) GetName(id StateID) string {
	return b.stateNames[id]
}

// EventName returns the name for a given EventID.
func (b *MachineBuilder) EventName(id EventID) string {
	return b.eventNames[id]
}

// Table validates and returns the built table.
func (b *MachineBuilder) Table() (TableConfig, error) {
	table := TableConfig{
		ID:          b.tableID,
		States:      append([]StateConfig(nil), b.states...),
		Transitions: append([]TransitionConfig(nil), b.transitions...),
		FreeEvents:  append([]FreeEventConfig(nil), b.freeEvents...),
	}
	switch {
	case b.initialName != "":
		table.Initial = b.assignState(b.initialName)
	case len(b.states) > 0:
		table.Initial = b.states[0].ID
	}

	if err := b.validate(); err != nil {
		return TableConfig{}, err
	}
	if err := table.Validate(); err != nil {
		return TableConfig{}, fmt.Errorf("invalid table %q: %w", b.tableID, err)
	}
	return table, nil
}

// Build validates the table and constructs the Machine.
func (b *MachineBuilder) Build(opts ...Option) (*Machine, error) {
	table, err := b.Table()
	if err != nil {
		return nil, err
	}
	return New(table, opts...)
}

func (b *MachineBuilder) assignState(name string) StateID {
	if id, exists := b.stateIDs[name]; exists {
		return id
	}
	id := b.nextState
	b.nextState++
	b.stateIDs[name] = id
	b.stateNames[id] = name
	return id
}

// validate reports names that were referenced but never declared, which
// is friendlier than the numeric error from TableConfig.Validate.
func (b *MachineBuilder) validate() error {
	for _, tr := range b.transitions {
		if tr.ReturnPrevious {
			continue
		}
		if _, ok := b.declared[tr.To]; !ok {
			return fmt.Errorf("transition %q targets undeclared state %q", tr.Name, b.stateNames[tr.To])
		}
	}
	if b.initialName != "" {
		if _, ok := b.declared[b.stateIDs[b.initialName]]; !ok {
			return fmt.Errorf("initial state %q is not declared", b.initialName)
		}
	}
	return nil
}

// StateBuilder fluent methods

func (sb *StateBuilder) config() *StateConfig {
	return &sb.b.states[sb.b.declared[sb.id]]
}

// ID returns the state's id.
func (sb *StateBuilder) ID() StateID {
	return sb.id
}

// Entry sets the callback run when the state is entered.
func (sb *StateBuilder) Entry(cb Callback) *StateBuilder {
	sb.config().OnEnter = cb
	return sb
}

// Exit sets the callback run when the state is left.
func (sb *StateBuilder) Exit(cb Callback) *StateBuilder {
	sb.config().OnExit = cb
	return sb
}

// Rejected sets the callback run for events the state cannot handle.
func (sb *StateBuilder) Rejected(cb Callback) *StateBuilder {
	sb.config().OnEventRejected = cb
	return sb
}

// On adds a transition from this state to targetName on eventName.
func (sb *StateBuilder) On(eventName, targetName string) *StateBuilder {
	evt := sb.b.Event(eventName)
	to := sb.b.assignState(targetName)
	sb.b.transitions = append(sb.b.transitions, TransitionConfig{
		Name:    fmt.Sprintf("%s -> %s on %s", sb.name, targetName, eventName),
		From:    sb.id,
		To:      to,
		Trigger: evt,
	})
	return sb
}
