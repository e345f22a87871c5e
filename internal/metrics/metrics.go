// Package metrics holds the Prometheus collectors of the backend.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var collectors = []prometheus.Collector{
	RequestCount,
	RequestDuration,
	SoftFailures,
	RecurringPosted,
	RolloversProcessed,
}

// Register registers all collectors with the default registry.
func Register() error {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// Unregister unregisters all collectors.
//
// This is needed to cleanly exit and to build more than one router in tests.
func Unregister() bool {
	ok := true
	for _, c := range collectors {
		if !prometheus.Unregister(c) {
			ok = false
		}
	}

	return ok
}

var RequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

var SoftFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sahod_soft_failures_total",
		Help: "Best effort steps that failed without failing the primary operation, partitioned by operation.",
	},
	[]string{"operation"},
)

var RecurringPosted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sahod_recurring_posted_total",
		Help: "Ledger entries posted for recurring rules.",
	},
)

var RolloversProcessed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sahod_rollovers_processed_total",
		Help: "Completed periods whose rollover envelopes were credited.",
	},
)
