// Package metrics exposes Prometheus collectors for the dispatch engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for EventsProcessed.
const (
	OutcomeTransition = "transition"
	OutcomeFree       = "free"
	OutcomeRejected   = "rejected"
)

// Metrics groups the collectors of one or more machines. Every series is
// labelled by table id so machines may share a registry.
type Metrics struct {
	EventsProcessed *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	PostFailures    *prometheus.CounterVec
	CallbackStatus  *prometheus.CounterVec
	MailboxDepth    *prometheus.GaugeVec
}

// New registers the collectors on reg. A nil reg uses a fresh private
// registry, which keeps tests independent.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		EventsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tablefsm_events_processed_total",
			Help: "Events taken from the mailbox by outcome (transition, free, rejected)",
		}, []string{"table", "outcome"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tablefsm_transitions_total",
			Help: "State changes performed by the dispatch loop",
		}, []string{"table", "from", "to"}),
		PostFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tablefsm_post_failures_total",
			Help: "Events that could not be queued, by reason",
		}, []string{"table", "reason"}),
		CallbackStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tablefsm_callback_nonzero_status_total",
			Help: "Callbacks that returned a non-zero status, by kind",
		}, []string{"table", "kind"}),
		MailboxDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tablefsm_mailbox_depth",
			Help: "Records waiting in the mailbox after the last dequeue",
		}, []string{"table"}),
	}
}

// IncPostFailure records a failed post with a concrete reason.
func (m *Metrics) IncPostFailure(table, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.PostFailures.WithLabelValues(table, reason).Inc()
}

// ObserveEvent records one dequeued event.
func (m *Metrics) ObserveEvent(table, outcome string, depth int) {
	if m == nil {
		return
	}
	m.EventsProcessed.WithLabelValues(table, outcome).Inc()
	m.MailboxDepth.WithLabelValues(table).Set(float64(depth))
}

// ObserveTransition records a state change.
func (m *Metrics) ObserveTransition(table, from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(table, from, to).Inc()
}

// ObserveStatus records a non-zero callback status.
func (m *Metrics) ObserveStatus(table, kind string) {
	if m == nil {
		return
	}
	m.CallbackStatus.WithLabelValues(table, kind).Inc()
}
