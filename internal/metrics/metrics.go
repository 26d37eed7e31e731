package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Probe metrics
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_probes_total",
			Help: "Total number of asset existence probes",
		},
		[]string{"result"}, // "hit", "miss"
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_probe_duration_seconds",
			Help:    "Asset probe duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ProbesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_probes_in_flight",
			Help: "Number of asset probes currently in flight",
		},
	)
)

// Resolver metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_resolutions_total",
			Help: "Total number of gallery resolutions by winning strategy",
		},
		[]string{"strategy"}, // "explicit", "pattern", "mapping", "folder", "video", "empty"
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_resolution_duration_seconds",
			Help:    "Gallery resolution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ResolvedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_resolved_items",
			Help:    "Number of items in resolved galleries",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)
)

// Lightbox metrics
var (
	LightboxOpensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_lightbox_opens_total",
			Help: "Total number of lightbox sessions opened",
		},
	)

	LightboxNavigationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_lightbox_navigations_total",
			Help: "Total number of lightbox navigation events",
		},
	)

	LazyExpansionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_lazy_expansions_total",
			Help: "Total number of lazy gallery expansion attempts",
		},
		[]string{"result"}, // "grown", "miss", "stale"
	)
)

// Thumbnail metrics
var (
	ThumbnailRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_requests_total",
			Help: "Total number of thumbnail requests",
		},
		[]string{"result"}, // "cached", "generated", "error"
	)
)
