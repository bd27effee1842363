// Options for configuring Machine instances.
package core

import (
	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm/internal/mailbox"
	"github.com/comalice/tablefsm/internal/metrics"
	"github.com/comalice/tablefsm/internal/primitives"
)

// WithCallbackRunner configures the Machine with a custom CallbackRunner.
func WithCallbackRunner(r CallbackRunner) Option {
	return func(m *Machine) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithEventSource configures the Machine with an EventSource that Start
// forwards into the mailbox.
func WithEventSource(s EventSource) Option {
	return func(m *Machine) {
		m.eventSource = s
	}
}

// WithPublisher configures the Machine with a custom EventPublisher.
func WithPublisher(pb EventPublisher) Option {
	return func(m *Machine) {
		m.publisher = pb
	}
}

// WithVisualizer configures the Machine with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(m *Machine) {
		m.visualizer = v
	}
}

// WithQueueSize sets the capacity of the mailbox created by Init.
func WithQueueSize(size int) Option {
	return func(m *Machine) {
		m.capacity = size
	}
}

// WithMailbox replaces the default channel mailbox.
func WithMailbox(mb mailbox.Mailbox) Option {
	return func(m *Machine) {
		m.mbox = mb
	}
}

// WithInitialState overrides the table's initial state.
func WithInitialState(id primitives.StateID) Option {
	return func(m *Machine) {
		m.initial = id
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithMetrics records dispatch activity in mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) {
		m.metrics = mt
	}
}

// WithHistorySize keeps the last n transitions. Zero disables history.
func WithHistorySize(n int) Option {
	return func(m *Machine) {
		m.history = NewHistory(n)
	}
}

// WithRejectOnDiscard makes the dispatch loop call the current state's
// OnEventRejected before discarding an unresolvable event. By default the
// loop discards silently and only Filter runs the rejection callback.
func WithRejectOnDiscard() Option {
	return func(m *Machine) {
		m.rejectOnDiscard = true
	}
}
