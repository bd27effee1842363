package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tablefsm"
)

func noop(tablefsm.Context, tablefsm.EventID) tablefsm.Status { return tablefsm.StatusOK }

func TestTablePreservesOrder(t *testing.T) {
	table, err := Table("door",
		Initial(2),
		State("closed", 1, OnEnter(noop), OnExit(noop)),
		State("open", 2, OnRejected(noop)),
		Transition("open", 1, 2, 10),
		AnyState("panic", 1, 11),
		ReturnPrevious("undo", 12),
		Transition("close", 2, 1, 13),
		FreeEvent("beat", 50, noop),
	)
	require.NoError(t, err)

	assert.Equal(t, tablefsm.StateID(2), table.InitialState())
	require.Len(t, table.States, 2)
	assert.NotNil(t, table.States[0].OnEnter)
	assert.NotNil(t, table.States[0].OnExit)
	assert.NotNil(t, table.States[1].OnEventRejected)

	names := make([]string, len(table.Transitions))
	for i, tr := range table.Transitions {
		names[i] = tr.Name
	}
	assert.Equal(t, []string{"open", "panic", "undo", "close"}, names)
	assert.Equal(t, tablefsm.AnyState, table.Transitions[1].From)
	assert.True(t, table.Transitions[2].ReturnPrevious)
	assert.Equal(t, tablefsm.EventID(50), table.FreeEvents[0].Trigger)
}

func TestTableDrivesMachine(t *testing.T) {
	table := MustTable("door",
		State("closed", 1),
		State("open", 2),
		Transition("open", 1, 2, 10),
		ReturnPrevious("undo", 12),
	)
	m, err := tablefsm.New(table)
	require.NoError(t, err)
	require.NoError(t, m.Init(nil))
	assert.True(t, m.Filter(10))
	assert.False(t, m.Filter(12), "nothing to return to yet")
}

func TestTableInvalid(t *testing.T) {
	_, err := Table("bad",
		State("only", 1),
		Transition("dangling", 1, 9, 10),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination state 9 not found")

	assert.Panics(t, func() { MustTable("empty") })
}
