package shard_node

import (
	"github.com/anthanhphan/gosdk/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/anthanhphan/phago-distributed/pkg/resilience"
)

var metricsBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "phago_shard_client_breaker_state",
	Help: "Circuit breaker state per shard address (0 closed, 1 half open, 2 open)",
}, []string{"addr"})

var metricsBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "phago_shard_client_breaker_trips_total",
	Help: "Times a shard's circuit breaker opened",
}, []string{"addr"})

func breakerValue(s resilience.CircuitBreakerState) float64 {
	switch s {
	case resilience.CircuitHalfOpen:
		return 1
	case resilience.CircuitOpen:
		return 2
	}
	return 0
}

func observeBreaker(addr string, from, to resilience.CircuitBreakerState) {
	metricsBreakerState.WithLabelValues(addr).Set(breakerValue(to))
	if to == resilience.CircuitOpen {
		metricsBreakerTrips.WithLabelValues(addr).Inc()
	}
	logger.Infow("Shard circuit breaker changed state", "addr", addr, "from", from, "to", to)
}
