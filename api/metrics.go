/*
metrics.go - Prometheus instrumentation

METRICS:
  roster_generations_total{outcome}           success | invalid | understaffed | error
  roster_generation_duration_seconds          Engine run time
  roster_overworked_records                   Overworked records per generated roster
  roster_http_requests_total{method,route,status}
  roster_http_request_duration_seconds{method,route,status}

Routes are labelled with the chi route pattern (/api/schedules/{id}), never
the raw path, so ids do not explode label cardinality.

Metrics are registered on a caller supplied registry so tests can use a
fresh prometheus.NewRegistry() per server.
*/
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/roster-engine/roster"
)

// Generation outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeUnderstaffed = "understaffed"
	OutcomeError        = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	overworked         prometheus.Histogram
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "generations_total",
			Help:      "Roster generations by outcome.",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roster",
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a roster.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}),
		overworked: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roster",
			Name:      "overworked_records",
			Help:      "Overworked (employee, week) records per generated roster.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roster",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.generations, m.generationDuration, m.overworked, m.httpRequests, m.httpDuration)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(elapsed time.Duration, result *roster.Result, err error) {
	outcome := generationOutcome(err)
	m.generations.WithLabelValues(outcome).Inc()
	if err != nil {
		return
	}
	m.generationDuration.Observe(elapsed.Seconds())
	if result != nil {
		m.overworked.Observe(float64(len(result.Summary.Overworked)))
	}
}

func generationOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, roster.ErrInsufficientStaff):
		return OutcomeUnderstaffed
	case roster.IsClientError(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := strconv.Itoa(wrapped.statusCode)

		m.httpDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(r.Method, route, status).Inc()
	})
}

// responseWriter captures the status code for metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}
