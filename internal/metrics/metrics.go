// Package metrics holds the prometheus collectors for store and gateway
// operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// OperationDuration measures each gateway operation end to end,
	// including connection acquisition.
	// Labels:
	//   - table: base table of the gateway
	//   - operation: find_all, find_by_id, count, search, sort, create, update, delete, query
	//   - outcome: success, not_found, error
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reels_gateway_operation_duration_seconds",
			Help:    "Duration of gateway operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"table", "operation", "outcome"},
	)

	// ProgramWrites counts composite program writes.
	// Labels:
	//   - outcome: committed, rejected (validation), rolled_back
	ProgramWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reels_program_writes_total",
			Help: "Total number of composite program writes by outcome",
		},
		[]string{"outcome"},
	)

	// ConnectionFailures counts failed connection acquisitions.
	ConnectionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reels_store_connection_failures_total",
			Help: "Total number of failed store connection acquisitions",
		},
	)
)

// ObserveOperation records one gateway operation.
func ObserveOperation(table, operation, outcome string, start time.Time) {
	OperationDuration.WithLabelValues(table, operation, outcome).Observe(time.Since(start).Seconds())
}
