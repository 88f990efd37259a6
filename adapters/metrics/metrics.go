// Package metrics provides Prometheus metrics collection for DocGate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for DocGate.
type Collector struct {
	// Document generation metrics
	DocGenerations        *prometheus.CounterVec
	DocGenerationDuration prometheus.Histogram
	DocCacheHits          prometheus.Counter

	// Docs endpoint metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Client metrics
	ClientRequests *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a collector on a private registry, for tests.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newCollector(promauto.With(reg))
}

func newCollector(factory promauto.Factory) *Collector {
	return &Collector{
		DocGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "doc_generations_total",
				Help:      "Total number of document assemblies",
			},
			[]string{"plugin", "public"},
		),
		DocGenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "docgate",
				Name:      "doc_generation_duration_seconds",
				Help:      "Document assembly duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		DocCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "doc_cache_hits_total",
				Help:      "Documents served from the generation cache",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "requests_total",
				Help:      "Total number of documentation requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "docgate",
				Name:      "request_duration_seconds",
				Help:      "Documentation request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),
		ClientRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "client_requests_total",
				Help:      "REST client calls by resource and status",
			},
			[]string{"resource", "status"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "config_reloads_total",
				Help:      "Successful configuration reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "docgate",
				Name:      "config_reload_errors_total",
				Help:      "Failed configuration reloads",
			},
		),
	}
}
