// Package metrics exposes Prometheus collectors for the coachtree server and
// adapts them to the pipeline's observability hooks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coachtree_loads_total",
		Help: "Total number of pipeline loads, labelled by outcome.",
	}, []string{"status"})

	RowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coachtree_rows_loaded_total",
		Help: "Total number of assignment rows accepted into builds.",
	})

	CoachesBuilt = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coachtree_coaches_per_build",
		Help:    "Registry size per successful build.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coachtree_stage_duration_ms",
		Help:    "Per-stage pipeline latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"stage"})

	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coachtree_cache_operations_total",
		Help: "Cache hits, misses, and writes, labelled by pipeline stage.",
	}, []string{"stage", "operation"})

	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coachtree_renders_total",
		Help: "Total number of rendered artifacts, labelled by format.",
	}, []string{"format"})
)
