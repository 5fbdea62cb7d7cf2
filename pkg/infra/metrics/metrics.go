// Package metrics exposes the gateway's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_gateway_validations_total",
		Help: "Validation calls, partitioned by preset and safety outcome.",
	}, []string{"preset", "outcome"})

	ThreatsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_gateway_threats_total",
		Help: "Flagged detector results across all validations.",
	}, []string{"detector"})

	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_gateway_validation_duration_seconds",
		Help:    "Wall time of one validation call including detector fan-out.",
		Buckets: prometheus.DefBuckets,
	})

	ScorerFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_gateway_scorer_failures_total",
		Help: "Detector results reported unavailable.",
	})

	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_gateway_generations_total",
		Help: "Safe-generate calls, partitioned by provider and outcome.",
	}, []string{"provider", "outcome"})
)
