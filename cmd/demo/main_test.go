package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comalice/tablefsm"
	"github.com/comalice/tablefsm/internal/config"
)

func TestBuiltinTableMatchesFile(t *testing.T) {
	var beats atomic.Int64
	h := demoHandlers(zerolog.Nop(), &beats)

	builtin := builtinTable(h)
	loaded, err := tablefsm.LoadTable("traffic.yaml", h)
	require.NoError(t, err)

	assert.Equal(t, builtin.ID, loaded.ID)
	assert.Equal(t, builtin.InitialState(), loaded.InitialState())
	require.Len(t, loaded.Transitions, len(builtin.Transitions))
	for i := range builtin.Transitions {
		assert.Equal(t, builtin.Transitions[i], loaded.Transitions[i])
	}
}

func TestRunStopsAfterCycles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.Defaults()
	cfg.Heartbeat.Trigger = uint32(evHeartbeat)
	cfg.Heartbeat.Interval = 2 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, cfg, 3, 5*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, ctx.Err(), "run should stop on its own")
}
