// Package mailbox provides the bounded FIFO of event records consumed by a
// machine's dispatch loop.
//
// The queue contract mirrors what firmware RTOS queues offer: a blocking
// send, a non-blocking send that is safe from asynchronous contexts, and a
// blocking receive. Records are delivered in strict arrival order.
package mailbox

import (
	"context"
	"errors"
	"sync"

	"github.com/comalice/tablefsm/internal/primitives"
)

var (
	// ErrMailboxFull is returned by TrySend when no slot is free.
	ErrMailboxFull = errors.New("mailbox full")
	// ErrMailboxClosed is returned once Close has been called.
	ErrMailboxClosed = errors.New("mailbox closed")
)

// Mailbox is the queue collaborator used by core.Machine.
type Mailbox interface {
	// Send enqueues evt, blocking while the mailbox is full until ctx is done.
	Send(ctx context.Context, evt primitives.EventID) error
	// TrySend enqueues evt without blocking.
	TrySend(evt primitives.EventID) error
	// Receive blocks until a record is available, ctx is done or the
	// mailbox is closed and drained.
	Receive(ctx context.Context) (primitives.EventID, error)
	Len() int
	Cap() int
	Close() error
}

// ChannelMailbox is a Mailbox backed by a buffered channel.
// Safe for concurrent senders; intended for a single receiver.
type ChannelMailbox struct {
	ch     chan primitives.EventID
	closed chan struct{}
	once   sync.Once
}

// New creates a ChannelMailbox holding up to capacity records.
// A non-positive capacity selects primitives.DefaultMailboxCapacity.
func New(capacity int) *ChannelMailbox {
	if capacity <= 0 {
		capacity = primitives.DefaultMailboxCapacity
	}
	return &ChannelMailbox{
		ch:     make(chan primitives.EventID, capacity),
		closed: make(chan struct{}),
	}
}

// Send blocks until the record is queued, ctx is done or the mailbox closes.
func (m *ChannelMailbox) Send(ctx context.Context, evt primitives.EventID) error {
	select {
	case <-m.closed:
		return ErrMailboxClosed
	default:
	}
	select {
	case m.ch <- evt:
		return nil
	case <-m.closed:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues the record or fails immediately.
func (m *ChannelMailbox) TrySend(evt primitives.EventID) error {
	select {
	case <-m.closed:
		return ErrMailboxClosed
	default:
	}
	select {
	case m.ch <- evt:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Receive returns the oldest record. After Close, records already queued
// are still delivered before ErrMailboxClosed is returned.
func (m *ChannelMailbox) Receive(ctx context.Context) (primitives.EventID, error) {
	select {
	case evt := <-m.ch:
		return evt, nil
	default:
	}
	select {
	case evt := <-m.ch:
		return evt, nil
	case <-m.closed:
		select {
		case evt := <-m.ch:
			return evt, nil
		default:
			return primitives.NoEvent, ErrMailboxClosed
		}
	case <-ctx.Done():
		return primitives.NoEvent, ctx.Err()
	}
}

// Len returns the number of queued records.
func (m *ChannelMailbox) Len() int { return len(m.ch) }

// Cap returns the mailbox capacity.
func (m *ChannelMailbox) Cap() int { return cap(m.ch) }

// Close stops accepting records and wakes a blocked receiver once the
// queue is drained. Safe to call multiple times.
func (m *ChannelMailbox) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}
