package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bilgin",
		Subsystem: "routing",
		Name:      "decisions_total",
		Help:      "Routing decisions by tier and category",
	}, []string{"tier", "category"})

	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bilgin",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Provider calls by outcome: success, error, inadequate",
	}, []string{"provider", "outcome"})

	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bilgin",
		Subsystem: "provider",
		Name:      "latency_seconds",
		Help:      "Latency of provider calls",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"provider"})

	chainExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bilgin",
		Name:      "chain_exhausted_total",
		Help:      "Requests where every provider in the chain failed",
	}, []string{"tier"})
)
