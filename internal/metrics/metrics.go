package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed metrics
	FeedFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mobility_feed_fetches_total",
		Help: "Snapshot fetches and subscription batches by feed and result",
	}, []string{"feed", "result"})

	FeedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mobility_feed_fetch_duration_seconds",
		Help:    "Time taken by one snapshot fetch from the mobility API",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6.4s
	}, []string{"feed"})

	FeedRestartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_feed_restarts_total",
		Help: "Feed runs started after a debounced query change",
	})

	StaleResultsDiscardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_stale_results_discarded_total",
		Help: "Results dropped because their feed run was superseded",
	})

	// Reconciler metrics
	UpdateEventsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mobility_update_events_applied_total",
		Help: "Update events applied to entity collections",
	}, []string{"kind", "update_type"})

	InvalidEntitiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mobility_invalid_entities_total",
		Help: "Entities rejected at the data source boundary or by the clusterer",
	}, []string{"kind"})

	// Cluster metrics
	ClusterIndexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mobility_cluster_index_duration_seconds",
		Help:    "Time taken to build the hierarchical cluster index",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	})

	ClusterCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mobility_cluster_cache_total",
		Help: "Memoized marker lookups by result",
	}, []string{"result"})

	// Session metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mobility_active_sessions",
		Help: "Current number of map sessions",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mobility_websocket_clients",
		Help: "Current number of connected dashboard websockets",
	})
)
