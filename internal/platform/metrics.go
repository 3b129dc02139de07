package platform

import (
	"shellpane/internal/runtime"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shellpane",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed, labeled by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shellpane",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of request durations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// InitMetrics registers the HTTP and terminal engine collectors.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPDuration)
	prometheus.MustRegister(runtime.Collectors()...)
}
