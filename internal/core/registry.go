// Package core provides the runtime core tier of the dispatch engine:
// the registry, the resolver and the run-to-completion dispatch loop.
package core

import (
	"github.com/comalice/tablefsm/internal/primitives"
)

// Registry holds the three registration tables of a machine. It is built
// once from a TableConfig and never mutated afterwards, so any number of
// machines may share one Registry.
//
// Lookups are first-match-wins in registration order. Duplicate identifiers
// are neither rejected nor deduplicated.
type Registry struct {
	table primitives.TableConfig

	stateIndex map[primitives.StateID]int   // first index per state id
	freeIndex  map[primitives.EventID]int   // first index per free-event trigger
	byTrigger  map[primitives.EventID][]int // ordinary transitions per trigger, table order
	returnPrev map[primitives.EventID]int   // first return-to-previous transition per trigger
}

// NewRegistry copies table into a new Registry. The table is not validated;
// callers that want validation run TableConfig.Validate first.
func NewRegistry(table primitives.TableConfig) *Registry {
	r := &Registry{table: table.Clone()}
	indexTable(r)
	return r
}

// ID returns the table id.
func (r *Registry) ID() string {
	return r.table.ID
}

// Initial returns the table's initial state.
func (r *Registry) Initial() primitives.StateID {
	return r.table.InitialState()
}

// Table returns a copy of the registered tables.
func (r *Registry) Table() primitives.TableConfig {
	return r.table.Clone()
}

// FindState returns the first state registered under id.
func (r *Registry) FindState(id primitives.StateID) (*primitives.StateConfig, bool) {
	i, ok := r.stateIndex[id]
	if !ok {
		return nil, false
	}
	return &r.table.States[i], true
}

// FindFreeEvent returns the first free event registered for trigger.
func (r *Registry) FindFreeEvent(trigger primitives.EventID) (*primitives.FreeEventConfig, bool) {
	i, ok := r.freeIndex[trigger]
	if !ok {
		return nil, false
	}
	return &r.table.FreeEvents[i], true
}

// StateLabel returns the diagnostic name of id, falling back to its number.
func (r *Registry) StateLabel(id primitives.StateID) string {
	if s, ok := r.FindState(id); ok {
		return s.Label()
	}
	return id.String()
}
