package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Site request metrics. The path label is a route template, never a raw path.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsboard_http_requests_total",
			Help: "Site requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration reaches 10s: feed pages scrape a remote site
	// before responding.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsboard_http_request_duration_seconds",
			Help:    "Site request latency by method, route and status",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsboard_http_requests_in_flight",
			Help: "Site requests currently being served",
		},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsboard_http_response_size_bytes",
			Help:    "Rendered page size by method and route",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"method", "path"},
	)
)

// RecordHTTPRequest records one finished site request.
func RecordHTTPRequest(method, route string, status, size int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
}

// Pipeline metrics track scraping, deduplication, resolution and retention
var (
	// PageFetchesTotal counts outbound page fetches by outcome
	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsboard_page_fetches_total",
			Help: "Total number of outbound page fetches",
		},
		[]string{"outcome"},
	)

	// PageFetchDuration measures outbound fetch latency
	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsboard_page_fetch_duration_seconds",
			Help:    "Duration of outbound page fetches",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 30},
		},
	)

	// CircuitOpen is 1 while the named breaker is open
	CircuitOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsboard_circuit_open",
			Help: "Whether a fetch circuit breaker is open (1) or not (0)",
		},
		[]string{"circuit"},
	)

	// IngestedStubsTotal counts stubs processed by the ingestion engine
	IngestedStubsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsboard_ingested_stubs_total",
			Help: "Stubs processed by ingestion, by tag and result",
		},
		[]string{"tag", "result"},
	)

	// ResolutionsTotal counts body resolutions by tag and outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsboard_resolutions_total",
			Help: "Article body resolutions, by tag and outcome",
		},
		[]string{"tag", "outcome"},
	)

	// SweptArticlesTotal counts articles removed by retention sweeps
	SweptArticlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsboard_swept_articles_total",
			Help: "Articles removed by retention sweeps",
		},
	)

	// SweepDenialsTotal counts sweep attempts by non-privileged identities
	SweepDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsboard_sweep_denials_total",
			Help: "Retention sweeps denied for non-privileged identities",
		},
	)

	// ArticlesStored is the article row count observed by the last sweep
	ArticlesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsboard_articles_stored",
			Help: "Number of stored articles",
		},
	)
)
