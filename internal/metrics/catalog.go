package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog provider and corpus Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animatch",
			Name:      "provider_requests_total",
			Help:      "Total number of catalog provider requests",
		},
		[]string{"endpoint", "status"}, // status: "success" / "error" / "rejected"
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "animatch",
			Name:      "provider_request_duration_seconds",
			Help:      "Catalog provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	ProviderBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animatch",
			Name:      "provider_breaker_state",
			Help:      "Catalog provider circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	CorpusItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animatch",
			Name:      "corpus_items",
			Help:      "Number of items in the current corpus snapshot",
		},
	)

	CorpusVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animatch",
			Name:      "corpus_vocabulary_terms",
			Help:      "Number of terms in the fitted vocabulary",
		},
	)

	CorpusGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animatch",
			Name:      "corpus_generation",
			Help:      "Generation of the current corpus snapshot",
		},
	)

	CorpusBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "animatch",
			Name:      "corpus_build_duration_seconds",
			Help:      "Corpus build duration in seconds, fetch included",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
	)

	LookupCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animatch",
			Name:      "lookup_cache_total",
			Help:      "Title lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerCatalogOnce sync.Once

// RegisterCatalogMetrics registers provider, corpus and cache metrics. Safe to call more than once.
func RegisterCatalogMetrics() {
	registerCatalogOnce.Do(func() {
		prometheus.MustRegister(
			ProviderRequestsTotal,
			ProviderRequestDuration,
			ProviderBreakerState,
			CorpusItems,
			CorpusVocabularySize,
			CorpusGeneration,
			CorpusBuildDuration,
			LookupCacheTotal,
		)
	})
}
