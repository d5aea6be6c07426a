package auditlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Deliveries is the total number of audit entries by delivery outcome.
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auditlog_deliveries_total",
			Help: "Total number of audit entries by delivery outcome",
		},
		[]string{"outcome"},
	)
)
