package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	JobsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "page_jobs_in_queue",
			Help: "Current number of page download jobs in the queue.",
		},
	)

	// PagesTotal counts page downloads; status is success or failure.
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_total",
			Help: "Total number of page download attempts.",
		},
		[]string{"status"},
	)

	PageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "page_duration_seconds",
			Help:    "Duration of whole page downloads, assets included.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"domain"},
	)

	// AssetsTotal counts asset downloads; stage is empty on success.
	AssetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assets_total",
			Help: "Total number of asset downloads.",
		},
		[]string{"status", "stage"},
	)

	AssetBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_bytes_total",
			Help: "Total bytes of assets written to disk.",
		},
	)
)
