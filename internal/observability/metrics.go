package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_requests_total",
			Help: "Total number of model calls by provider and stage",
		},
		[]string{"provider", "stage", "outcome"},
	)
	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_request_duration_seconds",
			Help:    "Model call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "stage"},
	)

	EvaluationParsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_parses_total",
			Help: "Evaluation normalization outcomes by tier (direct, repaired, failed)",
		},
		[]string{"tier"},
	)
	EvaluationFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluation_fallbacks_total",
			Help: "Evaluations served by the heuristic fallback scorer",
		},
	)

	RatingHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_rating",
			Help:    "Distribution of answer ratings [1,10]",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to
// call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ModelRequestsTotal,
			ModelRequestDuration,
			EvaluationParsesTotal,
			EvaluationFallbacksTotal,
			RatingHistogram,
		)
	})
}

// HTTPMetricsMiddleware records request counts and durations keyed by the
// chi route pattern so that label cardinality stays bounded.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveModelCall records one model call outcome.
func ObserveModelCall(provider, stage string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ModelRequestsTotal.WithLabelValues(provider, stage, outcome).Inc()
	ModelRequestDuration.WithLabelValues(provider, stage).Observe(dur.Seconds())
}
