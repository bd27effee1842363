// Package core provides the runtime core tier of the dispatch engine.
// This includes the Machine runtime, the mailbox-driven dispatch loop and
// transition history. Pluggable components are declared here and
// implemented in internal/extensibility and internal/production.
//go:generate go test ./... -race

package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm/internal/mailbox"
	"github.com/comalice/tablefsm/internal/metrics"
	"github.com/comalice/tablefsm/internal/primitives"
)

var (
	// ErrNoInitialState is returned by Init when the initial state id has
	// no registered descriptor.
	ErrNoInitialState = errors.New("initial state not registered")
	// ErrNotInitialized is returned when posting to or running a machine
	// before Init.
	ErrNotInitialized = errors.New("machine not initialized")
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("machine already initialized")
	// ErrAlreadyRunning is returned when a second consumer tries to drive
	// the loop.
	ErrAlreadyRunning = errors.New("dispatch loop already running")

	// Queue errors, re-exported so callers need only import core.
	ErrMailboxFull   = mailbox.ErrMailboxFull
	ErrMailboxClosed = mailbox.ErrMailboxClosed
)

// CallbackKind names the slot a callback was registered in.
type CallbackKind string

const (
	KindEnter    CallbackKind = "enter"
	KindExit     CallbackKind = "exit"
	KindRejected CallbackKind = "rejected"
	KindFree     CallbackKind = "free"
)

// Pluggable component interfaces.

// CallbackRunner invokes registered callbacks. The returned status is
// reported but never changes the course of dispatch.
type CallbackRunner interface {
	Run(fsm primitives.Context, kind CallbackKind, owner string, cb primitives.Callback, evt primitives.EventID) primitives.Status
}

// EventSource feeds external events into a started machine.
type EventSource interface {
	Events() <-chan primitives.EventID
}

// EventPublisher receives one record per completed state change.
type EventPublisher interface {
	Publish(ctx context.Context, record TransitionRecord) error
	Close() error
}

// Visualizer renders a table.
type Visualizer interface {
	ExportDOT(table primitives.TableConfig, current primitives.StateID) string
	ExportJSON(table primitives.TableConfig) ([]byte, error)
}

// Option applies configuration to Machine via functional options pattern.
type Option func(*Machine)

// Machine is one running instance of a registered table.
//
// Any goroutine may post events. Exactly one goroutine consumes them, via
// Process, Step or Start; callbacks run synchronously on that goroutine.
// current and previous share one atomic word (previous in the high 32
// bits) so that every reader sees a pair that existed together. Only the
// consumer and UpdatePreviousState write it.
type Machine struct {
	registry *Registry
	initial  primitives.StateID
	state    atomic.Uint64
	arg      any

	mbox        mailbox.Mailbox
	capacity    int
	initialized atomic.Bool
	running     atomic.Bool
	dispatched  atomic.Uint64

	logger          zerolog.Logger
	runner          CallbackRunner
	eventSource     EventSource
	publisher       EventPublisher
	visualizer      Visualizer
	metrics         *metrics.Metrics
	history         *History
	rejectOnDiscard bool

	// lifecycle of Start/Stop
	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	loopErr error
}

// NewMachine creates a Machine over a private copy of table.
func NewMachine(table primitives.TableConfig, opts ...Option) *Machine {
	return NewMachineWithRegistry(NewRegistry(table), opts...)
}

// NewMachineWithRegistry creates a Machine over a shared registry.
func NewMachineWithRegistry(reg *Registry, opts ...Option) *Machine {
	m := &Machine{
		registry: reg,
		initial:  reg.Initial(),
		capacity: primitives.DefaultMailboxCapacity,
		logger:   zerolog.Nop(),
		runner:   defaultRunner{},
		history:  NewHistory(32),
	}

	// Apply functional options
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("table", reg.ID()).Logger()

	return m
}

// Init sets the current state to the initial state, stores arg, creates
// the mailbox and runs the initial state's OnEnter with NoEvent.
// When the initial state is not registered, Init fails and nothing else
// happens.
func (m *Machine) Init(arg any) error {
	if m.initialized.Load() {
		return ErrAlreadyInitialized
	}

	state, ok := m.registry.FindState(m.initial)
	if !ok {
		m.logger.Error().Uint32("initial", uint32(m.initial)).Msg("initial state not registered")
		return fmt.Errorf("%w: %s", ErrNoInitialState, m.initial)
	}

	m.updateState(func(_, prev primitives.StateID) (primitives.StateID, primitives.StateID) {
		return m.initial, prev
	})
	m.arg = arg
	if m.mbox == nil {
		m.mbox = mailbox.New(m.capacity)
	}
	m.initialized.Store(true)

	m.logger.Debug().Str("state", state.Label()).Msg("machine initialized")
	m.invoke(KindEnter, state.Label(), state.OnEnter, primitives.NoEvent)
	return nil
}

// Process runs the dispatch loop until ctx is done or the mailbox is
// closed. It returns ctx.Err() or ErrMailboxClosed respectively.
func (m *Machine) Process(ctx context.Context) error {
	if !m.initialized.Load() {
		return ErrNotInitialized
	}
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer m.running.Store(false)

	for {
		evt, err := m.mbox.Receive(ctx)
		if err != nil {
			m.logger.Debug().Err(err).Msg("dispatch loop stopped")
			return err
		}
		m.dispatch(evt)
	}
}

// Step consumes and dispatches exactly one event, blocking until one is
// available. It must not be used while Process is running.
func (m *Machine) Step(ctx context.Context) error {
	if !m.initialized.Load() {
		return ErrNotInitialized
	}
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer m.running.Store(false)

	evt, err := m.mbox.Receive(ctx)
	if err != nil {
		return err
	}
	m.dispatch(evt)
	return nil
}

// Filter reports whether evt would be acted on in the current state: it is
// a free event, or it resolves to a real state change. On rejection the
// current state's OnEventRejected runs on the calling goroutine.
//
// Filter sees a consistent (current, previous) pair, but when called off
// the consumer goroutine while the loop is running the answer may be stale
// by the time evt is dispatched, and OnEventRejected may run concurrently
// with loop callbacks.
func (m *Machine) Filter(evt primitives.EventID) bool {
	current, previous := m.states()
	out := m.registry.Classify(current, previous, evt)
	if out.Kind != OutcomeNoMatch {
		return true
	}
	m.reject(current, evt)
	return false
}

// PostEvent enqueues evt, blocking while the mailbox is full until space
// frees up or ctx is done.
func (m *Machine) PostEvent(ctx context.Context, evt primitives.EventID) error {
	if !m.initialized.Load() {
		return ErrNotInitialized
	}
	if err := m.mbox.Send(ctx, evt); err != nil {
		m.postFailed(evt, err)
		return fmt.Errorf("post %s: %w", evt, err)
	}
	return nil
}

// PostEventISR enqueues evt without blocking. It fails with ErrMailboxFull
// when there is no free slot.
func (m *Machine) PostEventISR(evt primitives.EventID) error {
	if !m.initialized.Load() {
		return ErrNotInitialized
	}
	if err := m.mbox.TrySend(evt); err != nil {
		m.postFailed(evt, err)
		return fmt.Errorf("post %s: %w", evt, err)
	}
	return nil
}

// CurrentState returns the current state id.
func (m *Machine) CurrentState() primitives.StateID {
	cur, _ := m.states()
	return cur
}

// PreviousState returns the state the machine was in before its most
// recent transition, or AnyState if there has been none.
func (m *Machine) PreviousState() primitives.StateID {
	_, prev := m.states()
	return prev
}

// UpdatePreviousState overwrites the previous state. A later
// return-to-previous transition targets id.
func (m *Machine) UpdatePreviousState(id primitives.StateID) {
	m.updateState(func(cur, _ primitives.StateID) (primitives.StateID, primitives.StateID) {
		return cur, id
	})
}

func (m *Machine) states() (current, previous primitives.StateID) {
	w := m.state.Load()
	return primitives.StateID(uint32(w)), primitives.StateID(uint32(w >> 32))
}

func (m *Machine) updateState(fn func(cur, prev primitives.StateID) (primitives.StateID, primitives.StateID)) {
	for {
		old := m.state.Load()
		cur, prev := fn(primitives.StateID(uint32(old)), primitives.StateID(uint32(old>>32)))
		if m.state.CompareAndSwap(old, uint64(prev)<<32|uint64(cur)) {
			return
		}
	}
}

// Arg returns the application value given to Init.
func (m *Machine) Arg() any {
	return m.arg
}

// ID returns the table id of the machine.
func (m *Machine) ID() string {
	return m.registry.ID()
}

// Registry returns the registry the machine dispatches against.
func (m *Machine) Registry() *Registry {
	return m.registry
}

// Pending returns the number of queued events.
func (m *Machine) Pending() int {
	if !m.initialized.Load() {
		return 0
	}
	return m.mbox.Len()
}

// Dispatched returns the number of events taken off the mailbox and run
// to completion.
func (m *Machine) Dispatched() uint64 {
	return m.dispatched.Load()
}

// History returns the most recent state changes, oldest first.
func (m *Machine) History() []TransitionRecord {
	return m.history.Snapshot()
}

// Start initializes the machine if needed and runs Process on a new
// goroutine together with the configured EventSource, if any.
func (m *Machine) Start(ctx context.Context, arg any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return ErrAlreadyRunning
	}
	if !m.initialized.Load() {
		if err := m.Init(arg); err != nil {
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.loopErr = nil

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := m.Process(runCtx)
		m.mu.Lock()
		m.loopErr = err
		m.mu.Unlock()
	}()

	if m.eventSource != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.forward(runCtx, m.eventSource.Events())
		}()
	}
	return nil
}

// Stop cancels a machine started with Start and waits for its goroutines.
// It returns the loop's error unless that error is the cancellation itself.
// Safe to call multiple times.
func (m *Machine) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loopErr != nil && !errors.Is(m.loopErr, context.Canceled) {
		return m.loopErr
	}
	return nil
}

// Close closes the mailbox. A running loop drains what is queued and then
// returns ErrMailboxClosed.
func (m *Machine) Close() error {
	if !m.initialized.Load() {
		return ErrNotInitialized
	}
	return m.mbox.Close()
}

// Visualize returns the Graphviz DOT rendering of the table with the
// current state highlighted.
func (m *Machine) Visualize() string {
	if m.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return m.visualizer.ExportDOT(m.registry.Table(), m.CurrentState())
}

// dispatch runs one event to completion.
func (m *Machine) dispatch(evt primitives.EventID) {
	current, previous := m.states()
	out := m.registry.Classify(current, previous, evt)

	switch out.Kind {
	case OutcomeFreeEvent:
		m.logger.Debug().Uint32("event", uint32(evt)).Str("free", out.FreeEvent.Name).Msg("free event")
		m.invoke(KindFree, out.FreeEvent.Name, out.FreeEvent.Callback, evt)
		m.metrics.ObserveEvent(m.ID(), metrics.OutcomeFree, m.mbox.Len())

	case OutcomeTransition:
		m.transition(current, out, evt)
		m.metrics.ObserveEvent(m.ID(), metrics.OutcomeTransition, m.mbox.Len())

	default:
		m.logger.Debug().
			Uint32("event", uint32(evt)).
			Str("state", m.registry.StateLabel(current)).
			Str("reason", out.Reason).
			Msg("event discarded")
		if m.rejectOnDiscard {
			m.reject(current, evt)
		}
		m.metrics.ObserveEvent(m.ID(), metrics.OutcomeRejected, m.mbox.Len())
	}
	m.dispatched.Add(1)
}

// transition performs exit, update, enter in that order.
func (m *Machine) transition(from primitives.StateID, out Outcome, evt primitives.EventID) {
	if src, ok := m.registry.FindState(from); ok {
		m.invoke(KindExit, src.Label(), src.OnExit, evt)
	}

	m.updateState(func(_, _ primitives.StateID) (primitives.StateID, primitives.StateID) {
		return out.Target, from
	})

	dst, _ := m.registry.FindState(out.Target)
	m.invoke(KindEnter, dst.Label(), dst.OnEnter, evt)

	rec := TransitionRecord{
		MachineID:  m.ID(),
		Transition: out.Transition.Name,
		From:       from,
		To:         out.Target,
		Trigger:    evt,
		Timestamp:  time.Now(),
	}
	m.history.Record(rec)
	m.metrics.ObserveTransition(m.ID(), m.registry.StateLabel(from), dst.Label())
	m.logger.Debug().
		Str("transition", rec.Transition).
		Str("from", m.registry.StateLabel(from)).
		Str("to", dst.Label()).
		Uint32("event", uint32(evt)).
		Msg("state changed")

	if m.publisher != nil {
		if err := m.publisher.Publish(context.Background(), rec); err != nil {
			m.logger.Warn().Err(err).Str("transition", rec.Transition).Msg("publish failed")
		}
	}
}

func (m *Machine) reject(current primitives.StateID, evt primitives.EventID) {
	if state, ok := m.registry.FindState(current); ok {
		m.invoke(KindRejected, state.Label(), state.OnEventRejected, evt)
	}
}

func (m *Machine) invoke(kind CallbackKind, owner string, cb primitives.Callback, evt primitives.EventID) {
	if cb == nil {
		return
	}
	if status := m.runner.Run(m, kind, owner, cb, evt); status != primitives.StatusOK {
		m.metrics.ObserveStatus(m.ID(), string(kind))
		m.logger.Debug().
			Str("kind", string(kind)).
			Str("owner", owner).
			Int32("status", int32(status)).
			Msg("callback returned non-zero status")
	}
}

func (m *Machine) postFailed(evt primitives.EventID, err error) {
	reason := "canceled"
	switch {
	case errors.Is(err, mailbox.ErrMailboxFull):
		reason = "full"
	case errors.Is(err, mailbox.ErrMailboxClosed):
		reason = "closed"
	}
	m.metrics.IncPostFailure(m.ID(), reason)
	m.logger.Warn().Err(err).Uint32("event", uint32(evt)).Msg("event not posted")
}

// forward copies events from src into the mailbox until src closes or
// ctx is done.
func (m *Machine) forward(ctx context.Context, src <-chan primitives.EventID) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-src:
			if !ok {
				return
			}
			if err := m.PostEvent(ctx, evt); err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}

// defaultRunner calls the callback and returns its status.
type defaultRunner struct{}

func (defaultRunner) Run(fsm primitives.Context, _ CallbackKind, _ string, cb primitives.Callback, evt primitives.EventID) primitives.Status {
	return cb(fsm, evt)
}
