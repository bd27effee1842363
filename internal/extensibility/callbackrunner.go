package extensibility

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/primitives"
)

// DefaultCallbackRunner calls the callback and hands back its status.
// The machine only reports the status; it never acts on it.
type DefaultCallbackRunner struct{}

// Run executes cb.
func (r *DefaultCallbackRunner) Run(fsm primitives.Context, _ core.CallbackKind, _ string, cb primitives.Callback, evt primitives.EventID) primitives.Status {
	if cb == nil {
		return primitives.StatusOK
	}
	return cb(fsm, evt)
}

// LoggingCallbackRunner wraps a CallbackRunner and logs every invocation.
type LoggingCallbackRunner struct {
	inner  core.CallbackRunner
	logger zerolog.Logger
}

// NewLoggingCallbackRunner creates a new LoggingCallbackRunner wrapping the given inner runner.
// A nil inner runner selects DefaultCallbackRunner.
func NewLoggingCallbackRunner(inner core.CallbackRunner, logger zerolog.Logger) *LoggingCallbackRunner {
	if inner == nil {
		inner = &DefaultCallbackRunner{}
	}
	return &LoggingCallbackRunner{inner: inner, logger: logger}
}

// Run logs the callback's duration and status. Non-zero statuses are
// logged at warn level.
func (r *LoggingCallbackRunner) Run(fsm primitives.Context, kind core.CallbackKind, owner string, cb primitives.Callback, evt primitives.EventID) primitives.Status {
	start := time.Now()
	status := r.inner.Run(fsm, kind, owner, cb, evt)

	ev := r.logger.Debug()
	if status != primitives.StatusOK {
		ev = r.logger.Warn()
	}
	ev.Str("kind", string(kind)).
		Str("owner", owner).
		Uint32("event", uint32(evt)).
		Uint32("state", uint32(fsm.CurrentState())).
		Int32("status", int32(status)).
		Dur("took", time.Since(start)).
		Msg("callback completed")
	return status
}

// RecoveringCallbackRunner turns a panicking callback into PanicStatus so
// one faulty handler cannot kill the dispatch goroutine.
type RecoveringCallbackRunner struct {
	inner       core.CallbackRunner
	logger      zerolog.Logger
	PanicStatus primitives.Status
}

// NewRecoveringCallbackRunner wraps inner. Recovered panics return status -1.
func NewRecoveringCallbackRunner(inner core.CallbackRunner, logger zerolog.Logger) *RecoveringCallbackRunner {
	if inner == nil {
		inner = &DefaultCallbackRunner{}
	}
	return &RecoveringCallbackRunner{inner: inner, logger: logger, PanicStatus: -1}
}

// Run delegates to the inner runner and recovers a panic.
func (r *RecoveringCallbackRunner) Run(fsm primitives.Context, kind core.CallbackKind, owner string, cb primitives.Callback, evt primitives.EventID) (status primitives.Status) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().
				Str("kind", string(kind)).
				Str("owner", owner).
				Uint32("event", uint32(evt)).
				Str("panic", fmt.Sprint(p)).
				Msg("callback panicked")
			status = r.PanicStatus
		}
	}()
	return r.inner.Run(fsm, kind, owner, cb, evt)
}
