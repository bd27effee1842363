package tablefsm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	. "github.com/comalice/tablefsm"
)

const (
	stateA StateID = 1
	stateB StateID = 2

	evForward EventID = 100
	evBack    EventID = 200
	evTick    EventID = 50
	evUnknown EventID = 999
)

func scenario(rejections, ticks *int) TableConfig {
	return TableConfig{
		ID: "scenario",
		States: []StateConfig{
			{Name: "A", ID: stateA, OnEventRejected: func(Context, EventID) Status {
				*rejections++
				return StatusOK
			}},
			{Name: "B", ID: stateB},
		},
		Transitions: []TransitionConfig{
			{Name: "T1", From: stateA, To: stateB, Trigger: evForward},
			{Name: "T2", Trigger: evBack, ReturnPrevious: true},
		},
		FreeEvents: []FreeEventConfig{
			{Name: "F", Trigger: evTick, Callback: func(fsm Context, _ EventID) Status {
				*ticks++
				if d, ok := AppDataFrom(fsm); ok {
					d.Set("ticks", *ticks)
				}
				return StatusOK
			}},
		},
	}
}

func TestScenarioReturnToPrevious(t *testing.T) {
	var rejections, ticks int
	m, err := New(scenario(&rejections, &ticks))
	require.NoError(t, err)
	require.NoError(t, m.Init(nil))
	assert.Equal(t, stateA, m.CurrentState())

	step(t, m, evForward)
	assert.Equal(t, stateB, m.CurrentState())
	assert.Equal(t, stateA, m.PreviousState())

	step(t, m, evBack)
	assert.Equal(t, stateA, m.CurrentState())
	assert.Equal(t, stateB, m.PreviousState())

	step(t, m, evUnknown)
	assert.Equal(t, stateA, m.CurrentState())
	assert.Equal(t, stateB, m.PreviousState())
	assert.Zero(t, rejections)

	assert.False(t, m.Filter(evUnknown))
	assert.Equal(t, 1, rejections)
}

func TestScenarioFreeEvent(t *testing.T) {
	var rejections, ticks int
	m, err := New(scenario(&rejections, &ticks))
	require.NoError(t, err)
	data := NewAppData()
	require.NoError(t, m.Init(data))

	step(t, m, evTick)
	step(t, m, evForward)
	step(t, m, evTick)

	assert.Equal(t, 2, ticks)
	assert.Equal(t, 2, data.Get("ticks"))
	assert.Equal(t, stateB, m.CurrentState())
	assert.Equal(t, stateA, m.PreviousState())
	assert.Zero(t, rejections)
}

func TestNewRejectsInvalidTable(t *testing.T) {
	_, err := New(TableConfig{ID: "empty"})
	require.Error(t, err)

	_, err = NewRegistry(TableConfig{})
	require.Error(t, err)
}

func TestSharedRegistry(t *testing.T) {
	var rejections, ticks int
	reg, err := NewRegistry(scenario(&rejections, &ticks))
	require.NoError(t, err)

	m1 := NewFromRegistry(reg)
	m2 := NewFromRegistry(reg)
	require.NoError(t, m1.Init(nil))
	require.NoError(t, m2.Init(nil))

	step(t, m1, evForward)
	assert.Equal(t, stateB, m1.CurrentState())
	assert.Equal(t, stateA, m2.CurrentState(), "machines share tables, not state")
}

func TestStartStopLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var rejections, ticks int
	m, err := New(scenario(&rejections, &ticks), WithQueueSize(4))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Start(ctx, nil))

	require.NoError(t, m.PostEvent(ctx, evForward))
	require.Eventually(t, func() bool { return m.CurrentState() == stateB }, time.Second, time.Millisecond)
	require.NoError(t, m.Stop())
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	src := `id: scenario
states:
  - {name: A, id: 1, on_rejected: count}
  - {name: B, id: 2}
transitions:
  - {name: T1, from: 1, to: 2, trigger: 100}
  - {name: T2, trigger: 200, return_previous: true}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	rejected := 0
	handlers := HandlerSet{"count": func(Context, EventID) Status {
		rejected++
		return StatusOK
	}}
	table, err := LoadTable(path, handlers)
	require.NoError(t, err)

	m, err := New(table, WithRejectOnDiscard())
	require.NoError(t, err)
	require.NoError(t, m.Init(nil))
	step(t, m, evUnknown)
	assert.Equal(t, 1, rejected)

	_, err = LoadTable(path, HandlerSet{})
	require.Error(t, err)
}
