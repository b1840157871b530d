// Package metric provides Prometheus metrics for RosterTrace.
//
// It exposes metrics in Prometheus format for monitoring
// resolution outcomes, cache efficiency, upstream health and request rates.
package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rostertrace"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	FallbackTotal      *prometheus.CounterVec

	// Cache metrics
	CacheLookupsTotal *prometheus.CounterVec

	// Upstream metrics
	UpstreamFailuresTotal *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,

		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Acquisition resolutions by outcome.",
		}, []string{"outcome"}),

		ResolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Latency of acquisition resolutions.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		FallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_total",
			Help:      "Players reclassified as PreviousOwner, by reason.",
		}, []string{"reason"}),

		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Acquisition cache lookups by result.",
		}, []string{"result"}),

		UpstreamFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Degraded upstream fetches by operation.",
		}, []string{"op"}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status.",
		}, []string{"method", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		r.ResolutionsTotal,
		r.ResolutionDuration,
		r.FallbackTotal,
		r.CacheLookupsTotal,
		r.UpstreamFailuresTotal,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

// Registerer exposes the underlying registry for components that carry
// their own collectors (storage engines, custom collectors).
func (r *Registry) Registerer() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ============================================================================
// Resolver observations
// ============================================================================

// ObserveResolution records one resolution outcome and its latency.
func (r *Registry) ObserveResolution(outcome string, elapsed time.Duration) {
	r.ResolutionsTotal.WithLabelValues(outcome).Inc()
	r.ResolutionDuration.Observe(elapsed.Seconds())
}

// ObserveCacheLookup records one cache lookup result.
func (r *Registry) ObserveCacheLookup(result string) {
	r.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveUpstreamFailure records one degraded upstream fetch.
func (r *Registry) ObserveUpstreamFailure(op string) {
	r.UpstreamFailuresTotal.WithLabelValues(op).Inc()
}

// ObserveFallback records players reclassified by the fallback rule.
func (r *Registry) ObserveFallback(reason string, players int) {
	if reason == "" {
		reason = "none"
	}
	r.FallbackTotal.WithLabelValues(reason).Add(float64(players))
}

// ============================================================================
// HTTP observations
// ============================================================================

// RecordRequest counts one served HTTP request.
func (r *Registry) RecordRequest(method, status string) {
	r.RequestsTotal.WithLabelValues(method, status).Inc()
}

// ObserveRequestDuration records HTTP request latency in seconds.
func (r *Registry) ObserveRequestDuration(method string, seconds float64) {
	r.RequestDuration.WithLabelValues(method).Observe(seconds)
}
