// Package metrics holds the Prometheus collectors for matching operations,
// the graph store cache and the store circuit breaker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_operations_total",
			Help: "Total number of matching operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillgraph_operation_duration_seconds",
			Help:    "Duration of matching operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SkippedEntitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_skipped_entities_total",
			Help: "Entities left out of a ranking because their data could not be loaded",
		},
		[]string{"operation"},
	)

	StoreCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_store_cache_hits_total",
			Help: "Graph store cache hits by kind",
		},
		[]string{"kind"},
	)

	StoreCacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_store_cache_misses_total",
			Help: "Graph store cache misses by kind",
		},
		[]string{"kind"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skillgraph_store_breaker_state",
			Help: "Circuit breaker state of the graph store (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

func RecordOperation(operation, outcome string, d time.Duration) {
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
	OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func RecordSkipped(operation string, n int) {
	if n <= 0 {
		return
	}
	SkippedEntitiesTotal.WithLabelValues(operation).Add(float64(n))
}

func RecordCacheHit(kind string) {
	StoreCacheHitsTotal.WithLabelValues(kind).Inc()
}

func RecordCacheMiss(kind string) {
	StoreCacheMissesTotal.WithLabelValues(kind).Inc()
}

func SetBreakerState(name string, state float64) {
	BreakerState.WithLabelValues(name).Set(state)
}
