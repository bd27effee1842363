package core

import (
	"github.com/comalice/tablefsm/internal/primitives"
)

// OutcomeKind classifies what the dispatch loop must do with an event.
type OutcomeKind int

const (
	// OutcomeNoMatch means the event is discarded.
	OutcomeNoMatch OutcomeKind = iota
	// OutcomeFreeEvent means a free-event callback fires; state is untouched.
	OutcomeFreeEvent
	// OutcomeTransition means the machine changes state.
	OutcomeTransition
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFreeEvent:
		return "free"
	case OutcomeTransition:
		return "transition"
	default:
		return "no-match"
	}
}

// Reasons attached to OutcomeNoMatch.
const (
	ReasonNoTransition   = "no transition"
	ReasonSelfTransition = "self transition"
	ReasonUnknownTarget  = "destination not registered"
)

// Outcome is the result of resolving an event.
type Outcome struct {
	Kind       OutcomeKind
	Target     primitives.StateID
	Transition *primitives.TransitionConfig
	FreeEvent  *primitives.FreeEventConfig
	Reason     string
}

// Resolve maps (current, previous, trigger) to a transition outcome.
// Precedence:
//  1. a return-to-previous transition on trigger targets previous,
//     whatever current is;
//  2. otherwise the first ordinary transition in table order whose trigger
//     matches and whose source is current or AnyState;
//  3. a destination equal to current is suppressed (no match);
//  4. nothing matched is no match.
//
// A destination that is not a registered state (previous never seeded, for
// instance) is also no match. Resolve is pure.
//
// Return-to-previous is deliberately strict: when previous equals current
// the exit and enter callbacks are not re-run, and an unseeded previous is
// rejected by Filter as well as by the loop.
func (r *Registry) Resolve(current, previous primitives.StateID, trigger primitives.EventID) Outcome {
	var (
		match  *primitives.TransitionConfig
		target primitives.StateID
	)

	if i, ok := r.returnPrev[trigger]; ok {
		match = &r.table.Transitions[i]
		target = previous
	} else {
		for _, i := range r.byTrigger[trigger] {
			t := &r.table.Transitions[i]
			if t.Matches(current, trigger) {
				match = t
				target = t.To
				break
			}
		}
	}

	if match == nil {
		return Outcome{Kind: OutcomeNoMatch, Reason: ReasonNoTransition}
	}
	if target == current {
		return Outcome{Kind: OutcomeNoMatch, Transition: match, Target: target, Reason: ReasonSelfTransition}
	}
	if _, ok := r.FindState(target); !ok {
		return Outcome{Kind: OutcomeNoMatch, Transition: match, Target: target, Reason: ReasonUnknownTarget}
	}
	return Outcome{Kind: OutcomeTransition, Transition: match, Target: target}
}

// Classify applies the dispatch-loop order: free events first, then Resolve.
func (r *Registry) Classify(current, previous primitives.StateID, trigger primitives.EventID) Outcome {
	if fe, ok := r.FindFreeEvent(trigger); ok {
		return Outcome{Kind: OutcomeFreeEvent, FreeEvent: fe, Target: current}
	}
	return r.Resolve(current, previous, trigger)
}
