// Package metrics defines the Prometheus collectors for the dialogue engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts new treatment sessions.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindshift_sessions_started_total",
		Help: "Number of treatment sessions started.",
	})

	// SessionsCompleted counts sessions that reached the closing step.
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindshift_sessions_completed_total",
		Help: "Number of treatment sessions that reached completion.",
	})

	// InputsProcessed counts user inputs handled by the engine.
	InputsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindshift_inputs_processed_total",
		Help: "Number of user inputs processed.",
	})

	// ValidationFailures counts rejected inputs by failure kind.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindshift_validation_failures_total",
		Help: "Number of inputs rejected by validation, by kind.",
	}, []string{"kind"})

	// AssistanceCalls counts provider calls by gateway capability.
	AssistanceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindshift_assistance_calls_total",
		Help: "Number of language model calls, by capability.",
	}, []string{"capability"})

	// AssistanceFallbacks counts gateway degradations to scripted text.
	AssistanceFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindshift_assistance_fallbacks_total",
		Help: "Number of assistance requests served by local fallback, by reason.",
	}, []string{"reason"})

	// ProcessingDuration observes end-to-end input processing latency.
	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mindshift_processing_duration_seconds",
		Help:    "End-to-end latency of processing one user input.",
		Buckets: prometheus.DefBuckets,
	})
)
