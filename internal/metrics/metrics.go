// Package metrics exposes the Prometheus instrumentation used across the
// service layer and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuotaDecisions counts every quota evaluation, labelled by the action
	// checked and whether it was allowed.
	QuotaDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workculture",
		Name:      "quota_decisions_total",
		Help:      "Quota evaluations by action and outcome.",
	}, []string{"action", "allowed"})

	// RequestReviews counts approval-workflow reviews by request kind
	// (course_access, registration), action and outcome.
	RequestReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workculture",
		Name:      "request_reviews_total",
		Help:      "Request reviews by kind, action and outcome.",
	}, []string{"kind", "action", "outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workculture",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workculture",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps an HTTP handler with request counting and latency
// observation. The path label comes from the caller so route parameters do
// not explode the cardinality.
func Instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
