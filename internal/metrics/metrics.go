// Package metrics exposes Prometheus counters/gauges for rounds, events,
// and active sessions, grounded on github.com/prometheus/client_golang
// (present in pronitdas-poker-platform-b2b/go.mod) — an upgrade of the
// teacher's atomic.Int64 counter idiom in observability-service/main.go
// (eventsReceived/eventsPublished/eventsDropped) to a real metrics library
// now that one is available in the example pack.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RoundsCompleted counts every ROUND_ENDED event observed.
	RoundsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blackjack_trainer",
		Name:      "rounds_completed_total",
		Help:      "Total number of rounds resolved.",
	})

	// EventsEmitted counts every engine event, labeled by event type.
	EventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackjack_trainer",
		Name:      "events_emitted_total",
		Help:      "Total number of engine events emitted, by type.",
	}, []string{"event_type"})

	// EventsDropped counts push-transport events not delivered, either on
	// queue overflow or because the session had no active connection — the
	// same concern observability-service/main.go tracks with eventsDropped.
	EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blackjack_trainer",
		Name:      "push_events_dropped_total",
		Help:      "Total number of push-transport events dropped due to queue overflow or no active connection.",
	})

	// ActiveSessions is a gauge of currently connected push-transport sessions.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "blackjack_trainer",
		Name:      "active_sessions",
		Help:      "Number of sessions currently connected over the push transport.",
	})
)

// Registry is the metrics registry the /metrics endpoint serves.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(RoundsCompleted, EventsEmitted, EventsDropped, ActiveSessions)
}
