package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noolsaka_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noolsaka_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noolsaka_catalog_loads_total",
			Help: "Catalog load requests by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "noolsaka_catalog_entries",
			Help: "Number of entries in the most recently loaded catalog",
		},
	)

	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noolsaka_resolutions_total",
			Help: "Favorite resolutions by match method (author, title, fuzzy, none)",
		},
		[]string{"method"},
	)

	Panics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "noolsaka_http_panics_total",
			Help: "Handler panics recovered by middleware",
		},
	)

	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "noolsaka_recommendation_size",
			Help:    "Number of books returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 20, 25},
		},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCatalogLoad records a cache hit, a fresh load, or a failed load.
func RecordCatalogLoad(outcome string, entries int) {
	CatalogLoads.WithLabelValues(outcome).Inc()
	if outcome == "miss" {
		CatalogEntries.Set(float64(entries))
	}
}

func RecordResolution(method string) { Resolutions.WithLabelValues(method).Inc() }

func RecordRecommendation(n int) { RecommendationSize.Observe(float64(n)) }

func RecordPanic() { Panics.Inc() }
