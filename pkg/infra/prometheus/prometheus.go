package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Classification is CPU bound and
	// usually sub-millisecond, so the low end is finer than for network calls.
	latencyBuckets = []float64{
		0.05, 0.1, 0.25, 0.5,
		1, 2.5, 5, 10,
		25, 50, 100, 250,
	}

	VerdictsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentguard_verdicts_total",
			Help: "Total number of verdicts by severity and content context",
		},
		[]string{"severity", "context"},
	)

	RuleHitsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentguard_rule_hits_total",
			Help: "Number of times each severity rule decided a verdict",
		},
		[]string{"rule"},
	)

	ClassifyLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contentguard_classify_latency_ms",
			Help:    "Classification latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"operation"},
	)

	BatchSize = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contentguard_batch_size",
			Help:    "Number of items per batch classification request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	StoreErrorsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentguard_store_errors_total",
			Help: "Verdict store failures by operation",
		},
		[]string{"operation"},
	)

	PluginDecisionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentguard_plugin_decisions_total",
			Help: "Decisions taken by plugins of the payload chain",
		},
		[]string{"plugin", "mode", "decision"},
	)
)

var initOnce sync.Once

// Initialize registers the process collector and makes the service
// registry the process default.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

// Handler serves the service registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func Gatherer() prometheus.Gatherer {
	return registry
}
