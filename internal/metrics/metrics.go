// Package metrics declares the Prometheus collectors of the recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_requests_total",
			Help: "Total number of recommend calls by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid", "canceled"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_request_duration_seconds",
			Help:    "Duration of recommend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_candidates_filtered_total",
			Help: "Total number of candidates removed by hard constraints",
		},
		[]string{"reason"},
	)

	// Satisfaction predictor
	PredictorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_predictor_calls_total",
			Help: "Total number of satisfaction predictor calls by outcome",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	PredictorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_predictor_duration_seconds",
			Help:    "Duration of satisfaction predictor calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommender_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveRecommend records one finished recommend call.
func ObserveRecommend(outcome string, started time.Time) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(time.Since(started).Seconds())
}

// ObservePredictor records one satisfaction predictor call.
func ObservePredictor(err error, started time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	PredictorCalls.WithLabelValues(outcome).Inc()
	PredictorDuration.Observe(time.Since(started).Seconds())
}
