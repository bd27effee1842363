package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/comalice/tablefsm"
)

// RuntimeAdapter provides a common interface over the two ways of driving
// a machine: stepping it synchronously on the caller's goroutine, or
// running its dispatch loop on a background goroutine.
// This allows running the same test suite on both.
type RuntimeAdapter interface {
	Start(ctx context.Context) error
	Stop() error
	SendEvent(evt tablefsm.EventID) error
	IsInState(stateID tablefsm.StateID) bool
	GetCurrentState() tablefsm.StateID
	WaitForStability(timeout time.Duration) error
}

// SteppedAdapter dispatches every event before SendEvent returns.
type SteppedAdapter struct {
	m *tablefsm.Machine
}

// NewSteppedAdapter creates a new adapter that drives m with Step.
func NewSteppedAdapter(m *tablefsm.Machine) *SteppedAdapter {
	return &SteppedAdapter{m: m}
}

func (a *SteppedAdapter) Start(ctx context.Context) error {
	return a.m.Init(nil)
}

func (a *SteppedAdapter) Stop() error {
	return nil
}

func (a *SteppedAdapter) SendEvent(evt tablefsm.EventID) error {
	ctx := context.Background()
	if err := a.m.PostEvent(ctx, evt); err != nil {
		return err
	}
	return a.m.Step(ctx)
}

func (a *SteppedAdapter) IsInState(stateID tablefsm.StateID) bool {
	return a.m.CurrentState() == stateID
}

func (a *SteppedAdapter) GetCurrentState() tablefsm.StateID {
	return a.m.CurrentState()
}

func (a *SteppedAdapter) WaitForStability(time.Duration) error {
	// already dispatched
	return nil
}

// LoopAdapter runs the machine's dispatch loop on its own goroutine.
type LoopAdapter struct {
	m    *tablefsm.Machine
	sent uint64
}

// NewLoopAdapter creates a new adapter that drives m with Start and Stop.
func NewLoopAdapter(m *tablefsm.Machine) *LoopAdapter {
	return &LoopAdapter{m: m}
}

func (a *LoopAdapter) Start(ctx context.Context) error {
	return a.m.Start(ctx, nil)
}

func (a *LoopAdapter) Stop() error {
	return a.m.Stop()
}

func (a *LoopAdapter) SendEvent(evt tablefsm.EventID) error {
	if err := a.m.PostEvent(context.Background(), evt); err != nil {
		return err
	}
	a.sent++
	return nil
}

func (a *LoopAdapter) IsInState(stateID tablefsm.StateID) bool {
	return a.m.CurrentState() == stateID
}

func (a *LoopAdapter) GetCurrentState() tablefsm.StateID {
	return a.m.CurrentState()
}

// WaitForStability waits until every event sent through the adapter has
// been dispatched.
func (a *LoopAdapter) WaitForStability(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for a.m.Dispatched() < a.sent {
		if time.Now().After(deadline) {
			return fmt.Errorf("%d of %d events dispatched after %s", a.m.Dispatched(), a.sent, timeout)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}
