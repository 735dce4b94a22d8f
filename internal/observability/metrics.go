package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filescope_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filescope_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filescope_fetch_total",
			Help: "Total number of page fetches, by outcome.",
		},
		[]string{"outcome"},
	)

	fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filescope_fetch_errors_total",
			Help: "Fetch failures by stage of the fetch protocol.",
		},
		[]string{"stage"},
	)

	fetchDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filescope_fetch_duration_ms",
			Help:    "Page statement execute-and-drain latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)

	fetchRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filescope_fetch_rows_returned",
			Help:    "Rows returned per fetched page.",
			Buckets: []float64{0, 1, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		fetchTotal,
		fetchErrorsTotal,
		fetchDurationMs,
		fetchRowsReturned,
	)
}

func ObserveFetch(duration time.Duration, rows int) {
	fetchTotal.WithLabelValues("success").Inc()
	fetchDurationMs.Observe(float64(duration.Milliseconds()))
	fetchRowsReturned.Observe(float64(rows))
}

func ObserveFetchError(stage string) {
	fetchTotal.WithLabelValues("error").Inc()
	fetchErrorsTotal.WithLabelValues(stage).Inc()
}
