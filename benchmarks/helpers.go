// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tablefsm/internal/primitives"
)

// TickEvent drives every generated table.
const TickEvent primitives.EventID = 1

// GenRingTable creates n states cycling s1 -> s2 -> ... -> s1 on TickEvent.
func GenRingTable(n int) primitives.TableConfig {
	if n < 2 {
		n = 2
	}
	table := primitives.TableConfig{
		ID:          fmt.Sprintf("ring_%d", n),
		States:      make([]primitives.StateConfig, 0, n),
		Transitions: make([]primitives.TransitionConfig, 0, n),
	}
	for i := 1; i <= n; i++ {
		id := primitives.StateID(i)
		next := primitives.StateID(i%n + 1)
		table.States = append(table.States, primitives.NewStateConfig(fmt.Sprintf("s%d", i), id))
		table.Transitions = append(table.Transitions,
			primitives.NewTransition(fmt.Sprintf("s%d_s%d", i, next), id, next, TickEvent))
	}
	return table
}

// GenWideTable creates two states and numTransitions transitions on
// TickEvent whose sources never match, followed by one wildcard
// transition that does. Resolution has to walk the whole list.
func GenWideTable(numTransitions int) primitives.TableConfig {
	table := primitives.TableConfig{
		ID: fmt.Sprintf("wide_%d", numTransitions),
		States: []primitives.StateConfig{
			primitives.NewStateConfig("main", 1),
			primitives.NewStateConfig("other", 2),
		},
	}
	for i := 0; i < numTransitions; i++ {
		table.Transitions = append(table.Transitions,
			primitives.NewTransition(fmt.Sprintf("t%d", i), 2, 1, TickEvent))
	}
	table.Transitions = append(table.Transitions,
		primitives.NewTransition("any", primitives.AnyState, 2, TickEvent))
	return table
}

// GenTableYAML renders GenRingTable(n) as YAML.
func GenTableYAML(n int) []byte {
	data, err := yaml.Marshal(GenRingTable(n))
	if err != nil {
		panic(err)
	}
	return data
}
