package benchmarks

import (
	"context"
	"testing"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/primitives"
)

func newInitialized(b *testing.B, table primitives.TableConfig, opts ...core.Option) *core.Machine {
	b.Helper()
	if err := table.Validate(); err != nil {
		b.Fatal(err)
	}
	m := core.NewMachine(table, opts...)
	if err := m.Init(nil); err != nil {
		b.Fatal(err)
	}
	return m
}

// BenchmarkSimpleTransition measures post + dispatch of one transition
// with exit and enter callbacks, on the caller's goroutine.
func BenchmarkSimpleTransition(b *testing.B) {
	table := GenRingTable(2)
	cb := func(primitives.Context, primitives.EventID) primitives.Status { return primitives.StatusOK }
	for i := range table.States {
		table.States[i].OnEnter = cb
		table.States[i].OnExit = cb
	}
	m := newInitialized(b, table, core.WithHistorySize(0))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.PostEventISR(TickEvent); err != nil {
			b.Fatal(err)
		}
		if err := m.Step(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHistoryTransition is BenchmarkSimpleTransition with the
// default transition history enabled.
func BenchmarkHistoryTransition(b *testing.B) {
	m := newInitialized(b, GenRingTable(2))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.PostEventISR(TickEvent); err != nil {
			b.Fatal(err)
		}
		if err := m.Step(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	m := newInitialized(b, GenWideTable(10))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Filter(TickEvent)
	}
}
