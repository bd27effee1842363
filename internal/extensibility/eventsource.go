package extensibility

import (
	"sync"
	"time"

	"github.com/comalice/tablefsm/internal/primitives"
)

// ChannelEventSource is an EventSource implementation backed by a Go channel.
// Provides a simple way to feed external events into a started Machine.
type ChannelEventSource struct {
	ch chan primitives.EventID
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan primitives.EventID {
	return s.ch
}

// NewChannelEventSource creates a new ChannelEventSource with the given channel.
// The channel should be buffered if backpressure handling is needed.
func NewChannelEventSource(ch chan primitives.EventID) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

// TimerEventSource emits the same trigger every period.
// Useful for heartbeat and timeout tables.
type TimerEventSource struct {
	ch      chan primitives.EventID
	trigger primitives.EventID
	ticker  *time.Ticker
	stop    chan struct{}
	once    sync.Once
}

// NewTimerEventSource creates a TimerEventSource that emits trigger every d.
// Ticks are dropped while the consumer is behind.
func NewTimerEventSource(trigger primitives.EventID, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:      make(chan primitives.EventID, 10),
		trigger: trigger,
		ticker:  time.NewTicker(d),
		stop:    make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.trigger:
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel. It is closed after Stop.
func (t *TimerEventSource) Events() <-chan primitives.EventID {
	return t.ch
}

// Stop stops the ticker and closes the channel. Safe to call multiple times.
func (t *TimerEventSource) Stop() {
	t.once.Do(func() { close(t.stop) })
}
