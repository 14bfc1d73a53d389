// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matte_questions_total",
			Help: "Total number of questions classified, by intent",
		},
		[]string{"intent"},
	)

	QuestionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matte_question_outcomes_total",
			Help: "Total number of answered questions, by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	LLMFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matte_llm_failures_total",
			Help: "Total number of language model calls that fell back to canned text",
		},
		[]string{"error_code"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matte_query_failures_total",
			Help: "Total number of data store failures, by intent",
		},
		[]string{"intent"},
	)

	RespondDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matte_respond_duration_seconds",
			Help:    "Duration of answering one question in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"intent"},
	)

	QuestionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matte_questions_active",
			Help: "Number of questions currently being answered",
		},
	)
)
