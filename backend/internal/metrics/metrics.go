// Package metrics exposes Prometheus collectors for the forum store, the
// learning graph and the recommendation engine.
//
// Usage:
//
//	start := time.Now()
//	err := doWrite()
//	metrics.ObserveStoreOp(metrics.StoreCassandra, "create_post", start, err)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store labels
const (
	StoreCassandra = "cassandra"
	StoreNeo4j     = "neo4j"
	StoreRedis     = "redis"
)

var (
	// StoreOperationsTotal counts store operations by store, operation and outcome.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_store_operations_total",
			Help: "Total number of backing store operations",
		},
		[]string{"store", "operation", "outcome"},
	)

	// StoreOperationDuration tracks store operation latency.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursehub_store_operation_duration_seconds",
			Help:    "Duration of backing store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"store", "operation"},
	)

	// FanOutStepFailuresTotal counts denormalized writes that failed after
	// earlier steps of the same fan-out were applied. A reconciliation job
	// uses this as its signal.
	FanOutStepFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_forum_fanout_step_failures_total",
			Help: "Fan-out writes that failed part-way, leaving views divergent",
		},
		[]string{"operation", "step"},
	)

	// RecommendationCandidates tracks how many candidates each strategy returns.
	RecommendationCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursehub_recommendation_candidates",
			Help:    "Number of candidates returned per strategy invocation",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
		[]string{"strategy"},
	)

	// CacheRequestsTotal counts recommendation cache lookups by result.
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_recommendation_cache_requests_total",
			Help: "Recommendation cache lookups",
		},
		[]string{"result"},
	)
)

// ObserveStoreOp records the outcome and latency of one store operation.
func ObserveStoreOp(store, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOperationsTotal.WithLabelValues(store, operation, outcome).Inc()
	StoreOperationDuration.WithLabelValues(store, operation).Observe(time.Since(start).Seconds())
}

// RecordFanOutFailure records a fan-out step that failed after earlier steps succeeded.
func RecordFanOutFailure(operation, step string) {
	FanOutStepFailuresTotal.WithLabelValues(operation, step).Inc()
}

// RecordCandidates records the size of a strategy result.
func RecordCandidates(strategy string, n int) {
	RecommendationCandidates.WithLabelValues(strategy).Observe(float64(n))
}

// RecordCacheHit records a recommendation cache hit.
func RecordCacheHit() { CacheRequestsTotal.WithLabelValues("hit").Inc() }

// RecordCacheMiss records a recommendation cache miss.
func RecordCacheMiss() { CacheRequestsTotal.WithLabelValues("miss").Inc() }
