package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hors_search_requests_total",
			Help: "Total number of search lookups, by engine and outcome",
		},
		[]string{"engine", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hors_fetch_duration_seconds",
			Help:    "Duration of search page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	FetchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hors_fetch_bytes_total",
			Help: "Total bytes downloaded from search engines",
		},
		[]string{"host"},
	)

	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hors_fetch_requests_total",
			Help: "Total number of HTTP fetches, by host and status",
		},
		[]string{"host", "status"},
	)

	ChallengesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hors_challenges_total",
			Help: "Bot challenges detected on fetched pages, by source",
		},
		[]string{"host", "source"},
	)
)

// Search outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// RecordSearch counts one search lookup against an engine.
func RecordSearch(engine, outcome string) {
	SearchRequestsTotal.WithLabelValues(engine, outcome).Inc()
}

// RecordFetch updates the fetch metrics for one completed HTTP request.
// A statusCode of 0 means the request failed before a response arrived.
func RecordFetch(host string, statusCode int, duration time.Duration, bytes int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	FetchRequestsTotal.WithLabelValues(host, status).Inc()
	FetchDuration.WithLabelValues(host).Observe(duration.Seconds())
	FetchBytesTotal.WithLabelValues(host).Add(float64(bytes))
}

// RecordChallenge counts a detected bot challenge.
func RecordChallenge(host, source string) {
	ChallengesTotal.WithLabelValues(host, source).Inc()
}

// Handler returns the Prometheus scrape handler for the surrounding tool to
// mount wherever it serves diagnostics.
func Handler() http.Handler {
	return promhttp.Handler()
}
