package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumematcher_analyses_total",
			Help: "Total number of resume analyses by outcome",
		},
		[]string{"outcome"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumematcher_model_call_duration_seconds",
			Help:    "Duration of prompt pipeline model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"flow", "outcome"},
	)

	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumematcher_chat_messages_total",
			Help: "Total number of chat messages answered by outcome",
		},
		[]string{"outcome"},
	)

	SignInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumematcher_sign_ins_total",
			Help: "Total number of sign-in attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ScoreEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumematcher_score_events_total",
			Help: "Total number of score events published by outcome",
		},
		[]string{"outcome"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumematcher_resume_uploads_total",
			Help: "Total number of resume uploads by mime type and outcome",
		},
		[]string{"mime", "outcome"},
	)
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)
