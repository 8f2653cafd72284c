package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequestDuration tracks request latency by method, route and status
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "paytrack_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// TrackersSynced counts tracker upserts performed by the bulk sync job
var TrackersSynced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "paytrack_trackers_synced_total",
		Help: "Tracker upserts performed by the bulk sync job.",
	},
	[]string{"kind", "outcome"},
)

// SyncDuration tracks how long a full sync run takes per request kind
var SyncDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "paytrack_sync_duration_seconds",
		Help:    "Duration of bulk sync runs.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	},
	[]string{"kind"},
)

// SyncLastRun records the unix time of the last completed sync per request kind
var SyncLastRun = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "paytrack_sync_last_run_timestamp_seconds",
		Help: "Unix time of the last completed sync run.",
	},
	[]string{"kind"},
)

// SettlementsCreated counts settlements created by the manual detail edit path
var SettlementsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "paytrack_settlements_created_total",
		Help: "Settlements created via the tracker detail edit path.",
	},
	[]string{"outcome"},
)
