package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// Lifecycle
	Transitions        *prometheus.CounterVec
	TransitionFailures *prometheus.CounterVec
	TransitionsSkipped *prometheus.CounterVec

	// Events
	EventsDispatched *prometheus.CounterVec
	NotifyFailures   *prometheus.CounterVec

	// Money movement
	AllocatedAmount *prometheus.CounterVec

	// HTTP
	IdempotentReplays prometheus.Counter
}

// NewMetrics registers every collector on reg. Pass a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "state_transitions_total",
			Help:      "Applied lifecycle transitions.",
		}, []string{"entity", "from", "to"}),
		TransitionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "state_transition_failures_total",
			Help:      "Lifecycle transitions rejected by a state machine.",
		}, []string{"entity", "event"}),
		TransitionsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "state_transitions_skipped_total",
			Help:      "Transitions skipped because the entity already had the target state.",
		}, []string{"entity"}),
		EventsDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "domain_events_dispatched_total",
			Help:      "Domain events dispatched to in-transaction handlers.",
		}, []string{"event"}),
		NotifyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "event_notify_failures_total",
			Help:      "Committed events that could not be published outbound.",
		}, []string{"event"}),
		AllocatedAmount: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "allocated_amount_total",
			Help:      "Money split across investors, by kind.",
		}, []string{"kind"}),
		IdempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Namespace: "syndication",
			Name:      "idempotent_replays_total",
			Help:      "Mutating requests answered from the idempotency cache.",
		}),
	}
}
