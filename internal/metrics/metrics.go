// Package metrics exposes Prometheus counters for the analysis pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for analyses_total.
const (
	OutcomeCompleted = "completed"
	OutcomeCached    = "cached"
	OutcomePending   = "pending"
	OutcomeError     = "error"
)

// Metrics owns a private registry so tests and multiple servers in one process
// do not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	analyses     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	pollAttempts prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urlanalyzer_analyses_total",
			Help: "Total number of URL analyses by outcome",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urlanalyzer_cache_hits_total",
			Help: "Total number of verdict cache lookups",
		}, []string{"result"}),
		pollAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlanalyzer_poll_attempts",
			Help:    "Report polls needed per analysis",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 10},
		}),
	}
	m.registry.MustRegister(
		m.analyses,
		m.cacheLookups,
		m.pollAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis counts one analysis with the given outcome.
func (m *Metrics) ObserveAnalysis(outcome string) {
	m.analyses.WithLabelValues(outcome).Inc()
}

// ObserveCache counts a cache lookup as "hit" or "miss".
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObservePolls records how many report polls one analysis took.
func (m *Metrics) ObservePolls(n int) {
	m.pollAttempts.Observe(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
