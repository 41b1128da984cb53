package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolver metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plparse_resolutions_total",
			Help: "Total number of top-level resolutions by result",
		},
		[]string{"result"},
	)

	ResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plparse_resolve_duration_seconds",
			Help:    "Duration of top-level resolutions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DecoderResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plparse_decoder_results_total",
			Help: "Total number of decoder invocations by type and result",
		},
		[]string{"type", "result"},
	)

	EntriesEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plparse_entries_emitted_total",
			Help: "Total number of entries emitted",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plparse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plparse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Disc metrics
var (
	DiscEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plparse_disc_events_total",
			Help: "Total number of optical media events by action",
		},
		[]string{"action"},
	)

	HistoryRunsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plparse_history_runs_recorded_total",
			Help: "Total number of runs written to the history database by source",
		},
		[]string{"source"},
	)
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
