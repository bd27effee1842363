// Package benchmarks provides performance benchmarks for event throughput.
package benchmarks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/primitives"
)

func BenchmarkEventThroughput(b *testing.B) {
	var processed atomic.Int64
	table := GenRingTable(2)
	table.FreeEvents = []primitives.FreeEventConfig{
		primitives.NewFreeEvent("count", 2, func(primitives.Context, primitives.EventID) primitives.Status {
			processed.Add(1)
			return primitives.StatusOK
		}),
	}
	m := core.NewMachine(table, core.WithQueueSize(10000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Start(ctx, nil); err != nil {
		b.Fatal(err)
	}
	defer m.Stop()

	numWorkers := 8
	eventsPerWorker := b.N / numWorkers
	if eventsPerWorker == 0 {
		eventsPerWorker = 1
	}
	var wg sync.WaitGroup
	var failedSends atomic.Int64
	b.ResetTimer()
	b.ReportAllocs()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < eventsPerWorker; i++ {
				if err := m.PostEvent(ctx, 2); err != nil {
					failedSends.Add(1)
					return
				}
			}
		}()
	}
	wg.Wait()

	want := int64(numWorkers*eventsPerWorker) - failedSends.Load()
	deadline := time.Now().Add(10 * time.Second)
	for processed.Load() < want && time.Now().Before(deadline) {
		time.Sleep(100 * time.Microsecond)
	}
	b.StopTimer()
	b.ReportMetric(float64(processed.Load())/b.Elapsed().Seconds(), "events/sec")
}

// BenchmarkPostEventISRBackpressure measures the fail-fast path.
func BenchmarkPostEventISRBackpressure(b *testing.B) {
	m := core.NewMachine(GenRingTable(2), core.WithQueueSize(1))
	if err := m.Init(nil); err != nil {
		b.Fatal(err)
	}
	if err := m.PostEventISR(TickEvent); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.PostEventISR(TickEvent); !errors.Is(err, core.ErrMailboxFull) {
			b.Fatalf("expected full mailbox, got %v", err)
		}
	}
}
