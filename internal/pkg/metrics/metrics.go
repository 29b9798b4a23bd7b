// Package metrics defines and registers all custom Prometheus metrics for the
// places API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "places"

// ── Place metrics ─────────────────────────────────────────────────────────────

// PlacesCreatedTotal counts places whose create transaction committed.
var PlacesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of places created.",
	},
)

// PlacesDeletedTotal counts places whose delete transaction committed.
var PlacesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of places deleted.",
	},
)

// PlaceMutationErrorsTotal counts rejected or failed place mutations.
// Labels:
//   - op: "create", "update" or "delete"
//   - reason: e.g. "forbidden", "validation", "geocoding", "transaction"
var PlaceMutationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutation_errors_total",
		Help:      "Total number of place mutations that failed, by operation and reason.",
	},
	[]string{"op", "reason"},
)

// ── Asset metrics ─────────────────────────────────────────────────────────────

// ImageCleanupFailuresTotal counts stored images that could not be removed
// and are left orphaned on disk.
var ImageCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_failures_total",
		Help:      "Total number of image removals that failed after commit.",
	},
)

// CleanupQueueDepth tracks pending image removals in each cleanup worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of image removals pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeRequestsTotal counts address lookups.
// Label:
//   - result: "ok", "zero_results" or "error"
var GeocodeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Total number of geocoding lookups, by result.",
	},
	[]string{"result"},
)

// GeocodeDuration measures upstream geocoding latency.
var GeocodeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_duration_seconds",
		Help:      "Duration of upstream geocoding lookups.",
		Buckets:   prometheus.DefBuckets,
	},
)

// GeocodeCacheTotal counts geocode cache decisions.
// Label:
//   - result: "hit" or "miss"
var GeocodeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_cache_total",
		Help:      "Total number of geocode cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - op: "signup" or "login"
//   - result: "success", "duplicate" or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)
