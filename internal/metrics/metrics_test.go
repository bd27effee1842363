package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvent(t *testing.T) {
	m := New(nil)
	m.ObserveEvent("t1", OutcomeTransition, 3)
	m.ObserveEvent("t1", OutcomeTransition, 1)
	m.ObserveEvent("t1", OutcomeRejected, 0)

	if got := testutil.ToFloat64(m.EventsProcessed.WithLabelValues("t1", OutcomeTransition)); got != 2 {
		t.Errorf("transition events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EventsProcessed.WithLabelValues("t1", OutcomeRejected)); got != 1 {
		t.Errorf("rejected events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.MailboxDepth.WithLabelValues("t1")); got != 0 {
		t.Errorf("depth = %v, want 0", got)
	}
}

func TestPostFailureDefaultsReason(t *testing.T) {
	m := New(nil)
	m.IncPostFailure("t1", "")
	m.IncPostFailure("t1", "full")
	if got := testutil.ToFloat64(m.PostFailures.WithLabelValues("t1", "unknown")); got != 1 {
		t.Errorf("unknown = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PostFailures.WithLabelValues("t1", "full")); got != 1 {
		t.Errorf("full = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveEvent("t", OutcomeFree, 0)
	m.ObserveTransition("t", "a", "b")
	m.ObserveStatus("t", "enter")
	m.IncPostFailure("t", "full")
}

func TestSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveTransition("t1", "A", "B")
	m.ObserveStatus("t1", "exit")

	count, err := testutil.GatherAndCount(reg, "tablefsm_transitions_total", "tablefsm_callback_nonzero_status_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("gathered %d series, want 2", count)
	}
}
