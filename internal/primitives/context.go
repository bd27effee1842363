// Package primitives provides foundational data structures for the dispatch engine.
// Context is the callback-facing view of a running machine.
package primitives

import (
	"context"
	"fmt"
)

// StateID identifies a state. AnyState is reserved for wildcard matching.
type StateID uint32

const (
	// AnyState is the wildcard source: a transition from AnyState matches
	// whatever the current state is. It must never be a registered state.
	AnyState StateID = 0

	// DefaultInitialState is used when a table leaves Initial unset.
	DefaultInitialState StateID = 1
)

func (s StateID) String() string {
	if s == AnyState {
		return "any"
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}

// DefaultMailboxCapacity is the number of event records a mailbox holds
// when no capacity is configured.
const DefaultMailboxCapacity = 16

// Status is the code returned by every callback.
type Status int32

// StatusOK is the conventional success status.
const StatusOK Status = 0

// Context is what callbacks receive. It is implemented by core.Machine.
//
// Callbacks run on the dispatch goroutine. PostEvent blocks while the
// mailbox is full, so a callback that posts to its own machine should use
// PostEventISR instead.
type Context interface {
	CurrentState() StateID
	PreviousState() StateID
	UpdatePreviousState(id StateID)
	Arg() any
	PostEvent(ctx context.Context, evt EventID) error
	PostEventISR(evt EventID) error
}

// Callback is the single capability shared by enter, exit, rejection and
// free-event handlers.
type Callback func(fsm Context, evt EventID) Status
