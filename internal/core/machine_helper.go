// Helper functions for registry precomputation.
// Placed in separate file to organize code.

package core

import (
	"github.com/comalice/tablefsm/internal/primitives"
)

// indexTable builds the lookup maps of r. Only the first occurrence of a
// state id, free-event trigger or return-to-previous trigger is indexed,
// which gives the same answers as a linear scan in table order.
func indexTable(r *Registry) {
	t := &r.table
	r.stateIndex = make(map[primitives.StateID]int, len(t.States))
	r.freeIndex = make(map[primitives.EventID]int, len(t.FreeEvents))
	r.byTrigger = make(map[primitives.EventID][]int)
	r.returnPrev = make(map[primitives.EventID]int)

	for i := range t.States {
		if _, exists := r.stateIndex[t.States[i].ID]; !exists {
			r.stateIndex[t.States[i].ID] = i
		}
	}
	for i := range t.FreeEvents {
		if _, exists := r.freeIndex[t.FreeEvents[i].Trigger]; !exists {
			r.freeIndex[t.FreeEvents[i].Trigger] = i
		}
	}
	for i := range t.Transitions {
		tr := &t.Transitions[i]
		if tr.ReturnPrevious {
			if _, exists := r.returnPrev[tr.Trigger]; !exists {
				r.returnPrev[tr.Trigger] = i
			}
			continue
		}
		r.byTrigger[tr.Trigger] = append(r.byTrigger[tr.Trigger], i)
	}
}
