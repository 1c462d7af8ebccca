package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DispatchTotal counts FCM dispatch attempts by entry point and outcome.
// source is "relay" or "trigger"; outcome is "success" or "error".
var DispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "push_relay_dispatch_total",
		Help: "Total number of FCM dispatch attempts.",
	},
	[]string{"source", "outcome"},
)

// IntentsSkippedTotal counts change-feed records the Trigger Adapter ignored
// because of their type.
var IntentsSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "push_relay_intents_skipped_total",
		Help: "Total number of notification records skipped by type filter.",
	},
)

// Handler returns the Prometheus exposition handler for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
