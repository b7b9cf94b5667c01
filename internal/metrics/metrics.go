// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartfinance"

// LedgerMutations counts successful writes by collection and operation.
var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Ledger writes persisted to the store, by collection and operation.",
}, []string{"collection", "operation"})

// LedgerStoreErrors counts writes rejected because the store failed.
var LedgerStoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "store_errors_total",
	Help:      "Ledger writes that failed to persist, by collection.",
}, []string{"collection"})

// LedgerRecords reports the current size of each collection.
var LedgerRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "records",
	Help:      "Number of records held in each collection.",
}, []string{"collection"})

// LoginAttempts counts login attempts by result (success, failure).
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "identity",
	Name:      "login_attempts_total",
	Help:      "Login attempts by result.",
}, []string{"result"})

// HTTPRequests counts served requests by route pattern, method and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests served, by route, method and status code.",
}, []string{"route", "method", "status"})

// HTTPDuration observes request latency in seconds by route pattern.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
}, []string{"route"})

// Login results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// RecordMutation notes a persisted ledger write and the resulting size.
func RecordMutation(collection, operation string, size int) {
	LedgerMutations.WithLabelValues(collection, operation).Inc()
	LedgerRecords.WithLabelValues(collection).Set(float64(size))
}

// RecordLogin notes a login attempt.
func RecordLogin(ok bool) {
	result := ResultFailure
	if ok {
		result = ResultSuccess
	}
	LoginAttempts.WithLabelValues(result).Inc()
}
