package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RenderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventfeed_render_failures_total",
		Help: "Feed rows that fell back to the unexpected error message.",
	}, []string{"type"})

	UnsupportedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventfeed_unsupported_events_total",
		Help: "Feed rows rendered with the unsupported type message.",
	}, []string{"type"})

	FetchedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventfeed_fetched_events_total",
		Help: "Events saved by the GitHub fetch worker.",
	})

	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventfeed_fetch_errors_total",
		Help: "Failed GitHub fetch rounds.",
	})
)
