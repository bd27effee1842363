// Package primitives defines the foundational data structures for the dispatch engine.
//
// StateConfig is a state descriptor: an identity plus three optional callbacks.
package primitives

import (
	"errors"
)

// StateConfig describes one state. Callbacks are bound either directly in
// Go or, for tables loaded from disk, by handler name via HandlerSet.Bind.
type StateConfig struct {
	Name string  `json:"name" yaml:"name"`
	ID   StateID `json:"id" yaml:"id"`

	// Handler names, resolved by HandlerSet.Bind.
	Rejected string `json:"on_rejected,omitempty" yaml:"on_rejected,omitempty"`
	Enter    string `json:"on_enter,omitempty" yaml:"on_enter,omitempty"`
	Exit     string `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`

	OnEventRejected Callback `json:"-" yaml:"-"`
	OnEnter         Callback `json:"-" yaml:"-"`
	OnExit          Callback `json:"-" yaml:"-"`
}

// StateOption configures a StateConfig.
type StateOption func(*StateConfig)

// NewStateConfig creates a StateConfig with the given options applied.
func NewStateConfig(name string, id StateID, opts ...StateOption) StateConfig {
	s := StateConfig{Name: name, ID: id}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithEnter sets the entry callback.
func WithEnter(cb Callback) StateOption {
	return func(s *StateConfig) { s.OnEnter = cb }
}

// WithExit sets the exit callback.
func WithExit(cb Callback) StateOption {
	return func(s *StateConfig) { s.OnExit = cb }
}

// WithRejected sets the callback invoked for events the state cannot handle.
func WithRejected(cb Callback) StateOption {
	return func(s *StateConfig) { s.OnEventRejected = cb }
}

// WithHandlers names the callbacks to bind later from a HandlerSet.
// Empty names are left unbound.
func WithHandlers(enter, exit, rejected string) StateOption {
	return func(s *StateConfig) {
		s.Enter = enter
		s.Exit = exit
		s.Rejected = rejected
	}
}

// Validate checks the descriptor on its own. Uniqueness of ID is a table
// concern and is reported by TableConfig.Duplicates.
func (s *StateConfig) Validate() error {
	if s.ID == AnyState {
		return errors.New("state id 0 is reserved for the wildcard source")
	}
	return nil
}

// Label returns the name used in diagnostics.
func (s *StateConfig) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID.String()
}
