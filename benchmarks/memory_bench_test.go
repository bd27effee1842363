package benchmarks

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/production"
)

func BenchmarkMemoryRegistry(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		table := GenRingTable(n)
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = core.NewRegistry(table)
			}
		})
	}
}

func BenchmarkMemoryMachine(b *testing.B) {
	reg := core.NewRegistry(GenRingTable(100))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := core.NewMachineWithRegistry(reg)
		if err := m.Init(nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeTableYAML(b *testing.B) {
	data := GenTableYAML(100)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := production.Decode(bytes.NewReader(data), production.FormatYAML); err != nil {
			b.Fatal(err)
		}
	}
}
