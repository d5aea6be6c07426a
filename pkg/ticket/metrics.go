package ticket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transitions is the total number of ticket actions by action and outcome.
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_transitions_total",
			Help: "Total number of ticket actions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// SideEffectFailures is the total number of failed best-effort side effects.
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_side_effect_failures_total",
			Help: "Total number of failed best-effort side effects",
		},
		[]string{"step"},
	)

	// OpenTickets is the number of tickets in the registry.
	OpenTickets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticket_open_tickets",
			Help: "Number of tickets that are open or claimed",
		},
	)
)
