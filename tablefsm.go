// Package tablefsm is a table-driven finite-state-machine dispatch engine.
//
// A program registers states, transitions and free events once, in a fixed
// order, then drives a Machine by posting event identifiers to its bounded
// mailbox. A single dispatch goroutine consumes events one at a time and
// runs each to completion: exit callback, state update, enter callback.
//
// Lookups are first-match-wins in registration order. A return-to-previous
// transition on a trigger takes precedence over every ordinary transition
// on that trigger. Transitions whose destination is the current state are
// suppressed. Free events invoke their callback in any state and never
// change state.
package tablefsm

import (
	"fmt"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/primitives"
	"github.com/comalice/tablefsm/internal/production"
)

type (
	StateID          = primitives.StateID
	EventID          = primitives.EventID
	Status           = primitives.Status
	Callback         = primitives.Callback
	Context          = primitives.Context
	StateConfig      = primitives.StateConfig
	TransitionConfig = primitives.TransitionConfig
	FreeEventConfig  = primitives.FreeEventConfig
	TableConfig      = primitives.TableConfig
	HandlerSet       = primitives.HandlerSet

	Machine          = core.Machine
	Registry         = core.Registry
	Option           = core.Option
	TransitionRecord = core.TransitionRecord
)

const (
	AnyState            = primitives.AnyState
	NoEvent             = primitives.NoEvent
	DefaultInitialState = primitives.DefaultInitialState
	StatusOK            = primitives.StatusOK
)

var (
	ErrNoInitialState     = core.ErrNoInitialState
	ErrNotInitialized     = core.ErrNotInitialized
	ErrAlreadyInitialized = core.ErrAlreadyInitialized
	ErrAlreadyRunning     = core.ErrAlreadyRunning
	ErrMailboxFull        = core.ErrMailboxFull
	ErrMailboxClosed      = core.ErrMailboxClosed
)

// Machine options.
var (
	WithLogger          = core.WithLogger
	WithQueueSize       = core.WithQueueSize
	WithMailbox         = core.WithMailbox
	WithInitialState    = core.WithInitialState
	WithCallbackRunner  = core.WithCallbackRunner
	WithEventSource     = core.WithEventSource
	WithPublisher       = core.WithPublisher
	WithMetrics         = core.WithMetrics
	WithHistorySize     = core.WithHistorySize
	WithRejectOnDiscard = core.WithRejectOnDiscard
)

// WithDOT enables Machine.Visualize using the Graphviz renderer.
func WithDOT() Option {
	return core.WithVisualizer(&production.DefaultVisualizer{})
}

// New validates table and creates a Machine over a private copy of it.
// The machine still has to be started with Init or Start.
func New(table TableConfig, opts ...Option) (*Machine, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table %q: %w", table.ID, err)
	}
	return core.NewMachine(table, opts...), nil
}

// NewRegistry validates table and freezes it into a Registry that several
// machines can share.
func NewRegistry(table TableConfig) (*Registry, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table %q: %w", table.ID, err)
	}
	return core.NewRegistry(table), nil
}

// NewFromRegistry creates a Machine over a shared registry.
func NewFromRegistry(reg *Registry, opts ...Option) *Machine {
	return core.NewMachineWithRegistry(reg, opts...)
}

// LoadTable reads a YAML (.yaml, .yml) or JSON (.json) table file, binds
// its handler names from handlers and validates it.
func LoadTable(path string, handlers HandlerSet) (TableConfig, error) {
	return production.LoadFile(path, handlers)
}
