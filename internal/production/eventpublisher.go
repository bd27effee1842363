package production

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/comalice/tablefsm/internal/core"
)

// ChannelPublisher forwards transition records to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- core.TransitionRecord
	dropped atomic.Uint64
	once    sync.Once
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.TransitionRecord) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, record core.TransitionRecord) error {
	select {
	case p.ch <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil // Non-blocking drop
	}
}

// Dropped returns how many records were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. Publishing after Close panics, so close
// only once the machine is stopped.
func (p *ChannelPublisher) Close() error {
	p.once.Do(func() { close(p.ch) })
	return nil
}
