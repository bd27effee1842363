package main

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm"
	"github.com/comalice/tablefsm/builder"
)

// Traffic light ids. The YAML table in this directory uses the same ids.
const (
	stRed      tablefsm.StateID = 1
	stGreen    tablefsm.StateID = 2
	stYellow   tablefsm.StateID = 3
	stFlashing tablefsm.StateID = 4

	evTimer     tablefsm.EventID = 1
	evFault     tablefsm.EventID = 2
	evResume    tablefsm.EventID = 3
	evHeartbeat tablefsm.EventID = 50
)

// demoHandlers are the callbacks table files may refer to by name.
func demoHandlers(logger zerolog.Logger, beats *atomic.Int64) tablefsm.HandlerSet {
	logEnter := func(fsm tablefsm.Context, evt tablefsm.EventID) tablefsm.Status {
		logger.Info().
			Uint32("state", uint32(fsm.CurrentState())).
			Uint32("previous", uint32(fsm.PreviousState())).
			Uint32("event", uint32(evt)).
			Msg("light changed")
		return tablefsm.StatusOK
	}
	logRejected := func(fsm tablefsm.Context, evt tablefsm.EventID) tablefsm.Status {
		logger.Debug().
			Uint32("state", uint32(fsm.CurrentState())).
			Uint32("event", uint32(evt)).
			Msg("event ignored")
		return tablefsm.StatusOK
	}
	heartbeat := func(fsm tablefsm.Context, _ tablefsm.EventID) tablefsm.Status {
		n := beats.Add(1)
		if d, ok := tablefsm.AppDataFrom(fsm); ok {
			d.Set("heartbeats", n)
		}
		return tablefsm.StatusOK
	}
	return tablefsm.HandlerSet{
		"log_enter":    logEnter,
		"log_rejected": logRejected,
		"heartbeat":    heartbeat,
	}
}

// builtinTable is used when no table file is configured.
func builtinTable(h tablefsm.HandlerSet) tablefsm.TableConfig {
	light := func(name string, id tablefsm.StateID) builder.Entry {
		return builder.State(name, id,
			builder.OnEnter(h["log_enter"]),
			builder.OnRejected(h["log_rejected"]),
		)
	}
	return builder.MustTable("traffic-light",
		builder.Initial(stRed),
		light("red", stRed),
		light("green", stGreen),
		light("yellow", stYellow),
		light("flashing", stFlashing),
		builder.Transition("red_green", stRed, stGreen, evTimer),
		builder.Transition("green_yellow", stGreen, stYellow, evTimer),
		builder.Transition("yellow_red", stYellow, stRed, evTimer),
		builder.AnyState("fault", stFlashing, evFault),
		builder.ReturnPrevious("resume", evResume),
		builder.FreeEvent("heartbeat", evHeartbeat, h["heartbeat"]),
	)
}
