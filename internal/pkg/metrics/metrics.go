// Package metrics exposes the Prometheus collectors of the checkout service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	namespace = "checkout"
	subsystem = "engine"

	transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transitions_total",
			Help:      "Committed order transitions by action",
		},
		[]string{"action"},
	)

	storageWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_writes_total",
			Help:      "Session storage writes by key and result",
		},
		[]string{"key", "result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Checkout sessions currently held in memory",
		},
	)
)

func RecordTransition(action string) {
	transitions.WithLabelValues(action).Inc()
}

func RecordStorageWrite(key string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	storageWrites.WithLabelValues(key, result).Inc()
}

func SessionOpened() { activeSessions.Inc() }

func SessionClosed() { activeSessions.Dec() }

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
