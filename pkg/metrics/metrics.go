// Package metrics declares the Prometheus collectors exported by the
// service. Collectors are registered on the default registry at init and
// served by promhttp from cmd/web.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts suggestion cache hits per tier ("memory" or "kv").
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "songscout_cache_hits_total",
		Help: "Suggestion cache hits by tier.",
	}, []string{"tier"})

	// CacheMisses counts requests that ran the full pipeline.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "songscout_cache_misses_total",
		Help: "Suggestion cache misses.",
	})

	// ProviderCalls counts outbound candidate fetches per provider.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "songscout_provider_calls_total",
		Help: "Candidate fetches issued per provider.",
	}, []string{"provider"})

	// ProviderFailures counts fetches that returned an error or timed out.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "songscout_provider_failures_total",
		Help: "Candidate fetches that failed per provider.",
	}, []string{"provider"})

	// FallbackServed counts requests answered from the popularity fallback.
	FallbackServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "songscout_fallback_served_total",
		Help: "Requests answered by the popularity fallback.",
	})

	// SuggestDuration observes end-to-end pipeline latency in seconds.
	SuggestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "songscout_suggest_duration_seconds",
		Help:    "End-to-end suggestion pipeline latency.",
		Buckets: prometheus.DefBuckets,
	})
)
