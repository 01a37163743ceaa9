package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_sync_runs_total",
		Help: "Total number of sync runs, labelled by mode and outcome.",
	}, []string{"mode", "status"})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "membersync_sync_duration_seconds",
		Help:    "Wall-clock duration of a full sync pass.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	RecordsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_records_synced_total",
		Help: "Total records reconciled, labelled by entity type and action.",
	}, []string{"entity", "action"})

	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_api_requests_total",
		Help: "Total platform API requests, labelled by HTTP status class.",
	}, []string{"status_class"})

	APIRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "membersync_api_request_duration_seconds",
		Help:    "Platform API request latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_token_refreshes_total",
		Help: "Total OAuth token acquisitions against the auth endpoint.",
	})

	StaleMappings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "membersync_stale_mappings",
		Help: "ID mappings not observed within the stale threshold, by entity type.",
	}, []string{"entity"})
)
