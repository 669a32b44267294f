// Package metrics exposes Prometheus instrumentation for ledger activity.
// The collectors count lifecycle transitions by language class and track
// backup outcomes, with label cardinality deliberately bounded to the two
// fixed label values:
//
//   - language: "en" or "other" (the request's classification flag)
//   - outcome:  "ok" or "error" (backup exports)
//
// All collectors are safe for concurrent use. They are incremented by the
// service layer and the backup exporter; serving them is left to the
// process entrypoint (promhttp on METRICS_ADDR).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// requestsOpened counts requests accepted into the ledger.
	requestsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_requests_opened_total",
			Help: "Total number of requests opened.",
		},
		[]string{"language"},
	)

	// requestsFulfilled counts pending-to-fulfilled transitions.
	requestsFulfilled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_requests_fulfilled_total",
			Help: "Total number of requests fulfilled.",
		},
	)

	// requestsReverted counts fulfilled-to-pending transitions.
	requestsReverted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_requests_reverted_total",
			Help: "Total number of fulfillments reverted.",
		},
	)

	// requestsDeleted counts rows removed from the ledger.
	requestsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_requests_deleted_total",
			Help: "Total number of requests deleted.",
		},
	)

	// backups counts snapshot exports by outcome.
	backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_backups_total",
			Help: "Total number of backup exports by outcome.",
		},
		[]string{"outcome"},
	)

	// backupDuration records how long a full export takes.
	backupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_backup_duration_seconds",
			Help:    "Duration of backup exports in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestsOpened, requestsFulfilled, requestsReverted,
		requestsDeleted, backups, backupDuration,
	)
}

// language maps the boolean classification onto the bounded label set.
func language(isEnglish bool) string {
	if isEnglish {
		return "en"
	}
	return "other"
}

// RequestOpened records a newly opened request.
func RequestOpened(isEnglish bool) { requestsOpened.WithLabelValues(language(isEnglish)).Inc() }

// RequestFulfilled records a fulfillment.
func RequestFulfilled() { requestsFulfilled.Inc() }

// RequestReverted records a reverted fulfillment.
func RequestReverted() { requestsReverted.Inc() }

// RequestDeleted records a deleted request.
func RequestDeleted() { requestsDeleted.Inc() }

// BackupFinished records one export attempt with its outcome and duration.
func BackupFinished(err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backups.WithLabelValues(outcome).Inc()
	backupDuration.Observe(elapsed.Seconds())
}
