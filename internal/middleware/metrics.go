package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stable metric names; dashboards depend on them.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total API requests",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	analysisByFramework = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_by_framework_total",
		Help: "Analyses per framework and tier",
	}, []string{"framework", "tier"})

	metricsExtracted = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "metrics_extracted_count",
		Help:    "Extracted metrics per analysis",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	cacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Cache operations by outcome",
	}, []string{"op", "outcome"})

	creditDebits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credit_debits_total",
		Help: "Credit debit attempts by outcome",
	}, []string{"outcome"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_hits_total",
		Help: "Rate limit rejections",
	}, []string{"endpoint", "tier"})
)

// ObserveAnalysis records one completed analysis per framework.
func ObserveAnalysis(frameworks []string, tier string) {
	for _, fw := range frameworks {
		analysisByFramework.WithLabelValues(fw, tier).Inc()
	}
}

// ObserveExtractedCount records how many metrics one analysis yielded.
func ObserveExtractedCount(n int) {
	metricsExtracted.Observe(float64(n))
}

// IncCacheOp records a cache backend operation outcome.
func IncCacheOp(op, outcome string) {
	cacheOperations.WithLabelValues(op, outcome).Inc()
}

// IncCreditDebit records a debit outcome: ok, insufficient, error.
func IncCreditDebit(outcome string) {
	creditDebits.WithLabelValues(outcome).Inc()
}

// IncRateLimitHit records a rejected request.
func IncRateLimitHit(endpoint, tier string) {
	rateLimitHits.WithLabelValues(endpoint, tier).Inc()
}

// MetricsMiddleware tracks request counts and latencies per endpoint
// pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		endpoint := endpointLabel(r.URL.Path)
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(wrapped.statusCode)).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	})
}

// MetricsHandler serves the text exposition.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// endpointLabel collapses parameterized paths so label cardinality
// stays bounded.
func endpointLabel(path string) string {
	switch {
	case len(path) > 9 && path[:9] == "/company/":
		return "/company/{name}/history"
	case len(path) > 10 && path[:10] == "/analysis/":
		return "/analysis/{id}/gaps"
	default:
		return path
	}
}
