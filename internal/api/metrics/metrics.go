// Package metrics defines and registers all custom Prometheus metrics for the
// movie catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto and exposed by the router on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movies"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users created by username resolution.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created on first sight of a username.",
	},
)

// UpsertRetriesTotal counts uniqueness races that were resolved by re-reading.
// Label:
//   - operation: "resolve_user" or "toggle_favorite"
var UpsertRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upsert_retries_total",
		Help:      "Total number of uniqueness violations converted into a corrective retry.",
	},
	[]string{"operation"},
)

// ── Movie metrics ─────────────────────────────────────────────────────────────

// MovieMutationsTotal counts successful catalog mutations.
// Label:
//   - operation: "create", "update" or "delete"
var MovieMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful movie mutations, by operation.",
	},
	[]string{"operation"},
)

// FavoriteTogglesTotal counts favorite toggles.
// Label:
//   - result: "created" (new row with is_favorite=true) or "flipped"
var FavoriteTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Total number of favorite toggles, labelled by result (created/flipped).",
	},
	[]string{"result"},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchCacheTotal counts search cache lookups.
// Label:
//   - result: "hit" or "miss"
var SearchCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_total",
		Help:      "Total number of search cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// SearchProviderDuration measures round trips to the external movie database.
// Label:
//   - outcome: "match", "no_match" or "error"
var SearchProviderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_provider_duration_seconds",
		Help:      "Duration of calls to the external movie database.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
