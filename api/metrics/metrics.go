package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts engagement writes by operation and outcome
	// (created, removed, noop, or the error type).
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnect",
		Subsystem: "engagement",
		Name:      "mutations_total",
		Help:      "Engagement graph mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	ConflictRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnect",
		Subsystem: "engagement",
		Name:      "conflict_retries_total",
		Help:      "Transactions retried after a contention abort.",
	}, []string{"operation"})

	FeedAssembly = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "devconnect",
		Subsystem: "feed",
		Name:      "assembly_seconds",
		Help:      "Time spent assembling a feed page.",
		Buckets:   prometheus.DefBuckets,
	})

	FollowingCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnect",
		Subsystem: "feed",
		Name:      "following_cache_lookups_total",
		Help:      "Following-set cache lookups by result (hit, miss, stale, error).",
	}, []string{"result"})

	CounterRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "devconnect",
		Subsystem: "engagement",
		Name:      "counter_repairs_total",
		Help:      "Rows whose counters were corrected by a recount.",
	})

	RecountRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devconnect",
		Subsystem: "jobs",
		Name:      "recount_runs_total",
		Help:      "Counter recount runs by result (ok, error).",
	}, []string{"result"})
)
