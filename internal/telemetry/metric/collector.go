// Package metric provides Prometheus metrics for RosterTrace.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SizeReporter reports the number of live entries in a cache tier.
type SizeReporter interface {
	Len() int
}

// Collector reports cache tier sizes at scrape time.
type Collector struct {
	tiers map[string]SizeReporter
	desc  *prometheus.Desc
}

// NewCollector creates a collector over the named cache tiers.
// Nil reporters are skipped.
func NewCollector(tiers map[string]SizeReporter) *Collector {
	live := make(map[string]SizeReporter, len(tiers))
	for name, r := range tiers {
		if r != nil {
			live[name] = r
		}
	}
	return &Collector{
		tiers: live,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Live entries per cache tier.",
			[]string{"tier"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, r := range c.tiers {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(r.Len()), name)
	}
}
