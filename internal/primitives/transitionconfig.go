// Package primitives defines the foundational data structures for the dispatch engine.
// TransitionConfig maps (source state, trigger) to a destination state.
//
// A transition whose From is AnyState matches from every state. A transition
// with ReturnPrevious ignores From and To entirely and sends the machine back
// to whatever state was active before the current one.
package primitives

import (
	"errors"
)

// TransitionConfig describes one transition.
type TransitionConfig struct {
	Name           string  `json:"name" yaml:"name"`
	From           StateID `json:"from" yaml:"from"`
	To             StateID `json:"to" yaml:"to"`
	Trigger        EventID `json:"trigger" yaml:"trigger"`
	ReturnPrevious bool    `json:"return_previous,omitempty" yaml:"return_previous,omitempty"`
}

// NewTransition creates an ordinary transition.
func NewTransition(name string, from, to StateID, trigger EventID) TransitionConfig {
	return TransitionConfig{Name: name, From: from, To: to, Trigger: trigger}
}

// NewReturnPrevious creates a return-to-previous transition on trigger.
func NewReturnPrevious(name string, trigger EventID) TransitionConfig {
	return TransitionConfig{Name: name, Trigger: trigger, ReturnPrevious: true}
}

// Validate checks fields that do not depend on the rest of the table.
func (t *TransitionConfig) Validate() error {
	if t.Trigger == NoEvent {
		return errors.New("trigger 0 is reserved")
	}
	if !t.ReturnPrevious && t.To == AnyState {
		return errors.New("destination is required")
	}
	return nil
}

// Matches reports whether an ordinary transition fires for trigger while in
// current. Return-to-previous transitions never match here.
func (t *TransitionConfig) Matches(current StateID, trigger EventID) bool {
	if t.ReturnPrevious || t.Trigger != trigger {
		return false
	}
	return t.From == current || t.From == AnyState
}

// Wildcard reports whether the transition has a wildcard source.
func (t *TransitionConfig) Wildcard() bool {
	return !t.ReturnPrevious && t.From == AnyState
}
