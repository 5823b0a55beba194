package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	accessDecisionsTotal  *prometheus.CounterVec
	scoringRunsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kinerja_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kinerja_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		accessDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kinerja_access_decisions_total",
			Help: "Access policy decisions by outcome.",
		}, []string{"decision"})

		scoringRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kinerja_scoring_runs_total",
			Help: "Score aggregation runs by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(requestsTotal, requestLatencySeconds, accessDecisionsTotal, scoringRunsTotal)
	})
}

// Requests returns the request counter collector.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency returns the request latency histogram collector.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// AccessDecisions returns the access decision counter collector.
func AccessDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return accessDecisionsTotal
}

// ScoringRuns returns the scoring run counter collector.
func ScoringRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return scoringRunsTotal
}
