// Package metric provides Prometheus metrics for RosterTrace.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Custom collector for cache tier sizes
//
// Metrics include:
//
//   - Resolution outcome counters and latency histograms
//   - Cache lookup counters
//   - Upstream failure and fallback counters
//   - HTTP request counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
