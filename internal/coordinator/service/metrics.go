package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricsShards = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "phago_coordinator_shards",
	Help: "Registered shards by status",
}, []string{"status"})

var metricsCurrentTick = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "phago_coordinator_current_tick",
	Help: "The coordinator's tick counter",
})

var metricsTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "phago_coordinator_ticks_total",
	Help: "Ticks that ran to completion",
})

var metricsTickFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "phago_coordinator_tick_failures_total",
	Help: "Ticks aborted, by the phase that failed",
}, []string{"phase"})

var metricsPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "phago_coordinator_phase_duration_seconds",
	Help:    "Time from fan-out to barrier release per phase",
	Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
}, []string{"phase"})

var metricsEdgesResolved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "phago_coordinator_cross_shard_edges_resolved_total",
	Help: "Cross-shard edges whose ghost was delivered to the reporting shard",
})

var metricsEdgesPending = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "phago_coordinator_cross_shard_edges_pending",
	Help: "Cross-shard edges waiting for the next resolution pass",
})

var metricsDocumentsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "phago_coordinator_documents_ingested_total",
	Help: "Documents routed and accepted by a shard",
})

var metricsQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "phago_coordinator_query_duration_seconds",
	Help:    "End-to-end distributed query latency",
	Buckets: prometheus.DefBuckets,
})

var metricsQueryFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "phago_coordinator_query_failures_total",
	Help: "Distributed queries that returned an error",
})
