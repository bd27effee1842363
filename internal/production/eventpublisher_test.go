// Tests for ChannelPublisher delivery and Machine integration.
package production

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/primitives"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan core.TransitionRecord, 10)
	p := NewChannelPublisher(ch)

	rec := core.TransitionRecord{
		MachineID:  "test-machine",
		Transition: "open",
		From:       1,
		To:         2,
		Trigger:    10,
		Timestamp:  time.Now(),
	}

	if err := p.Publish(context.Background(), rec); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.MachineID != rec.MachineID || got.Transition != rec.Transition {
			t.Errorf("record mismatch: got %+v, want %+v", got, rec)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No record delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan core.TransitionRecord, 1)
	p := NewChannelPublisher(ch)
	ch <- core.TransitionRecord{} // Fill buffer

	if err := p.Publish(context.Background(), core.TransitionRecord{Transition: "dropped"}); err != nil {
		t.Errorf("drop should not be an error: %v", err)
	}
	if p.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", p.Dropped())
	}
}

func TestChannelPublisher_CloseIdempotent(t *testing.T) {
	ch := make(chan core.TransitionRecord)
	p := NewChannelPublisher(ch)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
}

func TestChannelPublisher_MachineIntegration(t *testing.T) {
	ch := make(chan core.TransitionRecord, 10)
	m := core.NewMachine(doorTable(), core.WithPublisher(NewChannelPublisher(ch)))
	if err := m.Init(nil); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, evt := range []primitives.EventID{evOpen, evClose, evOpen} {
		if err := m.PostEvent(ctx, evt); err != nil {
			t.Fatal(err)
		}
		if err := m.Step(ctx); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"open", "close", "open"}
	for i, name := range want {
		select {
		case got := <-ch:
			if got.Transition != name {
				t.Errorf("record %d: got %q, want %q", i, got.Transition, name)
			}
			if got.MachineID != "door" {
				t.Errorf("record %d: machine %q", i, got.MachineID)
			}
		default:
			t.Fatalf("record %d missing", i)
		}
	}
}
