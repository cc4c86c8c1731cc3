package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	reviewRequestsTotal  *prometheus.CounterVec
	reviewLatencySeconds *prometheus.HistogramVec
	reviewErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the admin
// review surface.
func RegisterMetrics() {
	registerOnce.Do(func() {
		reviewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_requests_total",
			Help: "Total number of admin review API requests served.",
		}, []string{"method", "route", "status"})

		reviewLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_latency_seconds",
			Help:    "Latency distribution for admin review API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reviewErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_errors_total",
			Help: "Total number of error responses returned by admin review endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(reviewRequestsTotal, reviewLatencySeconds, reviewErrorsTotal)
	})
}

// ReviewRequests exposes the counter for review requests.
func ReviewRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewRequestsTotal
}

// ReviewLatency exposes the latency histogram for review requests.
func ReviewLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reviewLatencySeconds
}

// ReviewErrors exposes the counter for review error responses.
func ReviewErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewErrorsTotal
}
