// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider RPC latency (seconds)
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gmailtriage_provider_call_duration_seconds",
			Help:    "Mail provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"operation", "status"},
	)

	// Provider retries
	ProviderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmailtriage_provider_retries_total",
			Help: "Total number of retried provider calls",
		},
		[]string{"operation"},
	)

	// Messages fetched during listings
	EmailsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmailtriage_emails_fetched_total",
			Help: "Total number of messages fetched for listings",
		},
		[]string{"status"}, // status: ok, dropped
	)

	// Importance scores assigned
	ScoresAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmailtriage_importance_scores_total",
			Help: "Total number of importance scores assigned",
		},
		[]string{"score"},
	)

	// Bulk mutation items
	BulkItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmailtriage_bulk_items_total",
			Help: "Total number of bulk mutation items processed",
		},
		[]string{"action", "result"}, // result: succeeded, failed
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gmailtriage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)
)

// RecordProviderCall records one provider RPC
func RecordProviderCall(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderCallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordRetry counts a retried provider call
func RecordRetry(operation string) {
	ProviderRetries.WithLabelValues(operation).Inc()
}

// RecordFetch counts fetched and dropped messages of one listing
func RecordFetch(ok, dropped int) {
	EmailsFetched.WithLabelValues("ok").Add(float64(ok))
	EmailsFetched.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordScore counts an assigned importance score
func RecordScore(score int) {
	ScoresAssigned.WithLabelValues(strconv.Itoa(score)).Inc()
}

// RecordBulk counts the outcome of a bulk mutation
func RecordBulk(action string, succeeded, failed int) {
	BulkItems.WithLabelValues(action, "succeeded").Add(float64(succeeded))
	BulkItems.WithLabelValues(action, "failed").Add(float64(failed))
}

// RecordHTTPRequest records one HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
