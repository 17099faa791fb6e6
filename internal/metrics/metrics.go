// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "copywriter"

// Metrics methods are safe on a nil receiver so services can run without them.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	generations *prometheus.CounterVec
	llmRequests *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	feedback    *prometheus.CounterVec
	rateLimited prometheus.Counter
	sideEffects *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		}, []string{"method", "route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Completed generations by source of the variants.",
		}, []string{"source"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Completion calls by provider and result class.",
		}, []string{"provider", "operation", "result"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Duration of completion calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		}, []string{"provider", "operation"}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "total",
			Help:      "Feedback submissions by satisfaction.",
		}, []string{"satisfaction"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-user rate limiter.",
		}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Best-effort writes that failed and were ignored.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.generations,
		m.llmRequests,
		m.llmDuration,
		m.feedback,
		m.rateLimited,
		m.sideEffects,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) HTTPStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) HTTPFinished(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// GenerationCompleted counts one generation; source is "ai" or "fallback".
func (m *Metrics) GenerationCompleted(source string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(source).Inc()
}

func (m *Metrics) LLMCall(provider, operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, operation, result).Inc()
	m.llmDuration.WithLabelValues(provider, operation).Observe(seconds)
}

func (m *Metrics) FeedbackSubmitted(satisfaction string) {
	if m == nil {
		return
	}
	m.feedback.WithLabelValues(satisfaction).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) SideEffectFailed(kind string) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(kind).Inc()
}
