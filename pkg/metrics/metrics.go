// Package metrics records rule set check outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formcheck/pkg/validator"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "formcheck"

// Checks run in microseconds; the buckets cover slow regular expressions too.
var durationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}

// Collector owns the check metrics and the registry they are exposed from.
type Collector struct {
	registry *prometheus.Registry

	checks   *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector registers the check metrics on registry. A nil registry
// gets a fresh one, and an empty namespace falls back to DefaultNamespace.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: registry,
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Rule set checks by outcome.",
			},
			[]string{"ruleset", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Failed checks by the field that failed.",
			},
			[]string{"ruleset", "field"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Time spent evaluating a rule set.",
				Buckets:   durationBuckets,
			},
			[]string{"ruleset"},
		),
	}

	registry.MustRegister(c.checks, c.failures, c.duration)
	return c
}

// Observe records one check of the named rule set. Safe on a nil Collector.
func (c *Collector) Observe(ruleset string, res validator.Result, d time.Duration) {
	if c == nil {
		return
	}
	c.checks.WithLabelValues(ruleset, string(res.Outcome)).Inc()
	if !res.Valid {
		c.failures.WithLabelValues(ruleset, res.Field).Inc()
	}
	c.duration.WithLabelValues(ruleset).Observe(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the collector registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
