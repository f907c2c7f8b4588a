package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every yolka collector; it is served by Handler.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		EventsTotal, PicksTotal, RemindersTotal,
		RendersTotal, RenderDuration, RenderBusy,
		DeliveryFailuresTotal,
	)
}

// EventsTotal counts inbound events by kind.
var EventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yolka_events_total",
		Help: "Inbound events handled, by kind.",
	},
	[]string{"kind"},
)

// PicksTotal counts pick outcomes: accepted | duplicate | unknown | completed.
var PicksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yolka_picks_total",
		Help: "Pick requests, by outcome.",
	},
	[]string{"result"},
)

// RemindersTotal counts reminder timers by outcome: sent | stale | failed.
var RemindersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yolka_reminders_total",
		Help: "Fired reminder timers, by outcome.",
	},
	[]string{"outcome"},
)

var RendersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yolka_renders_total",
		Help: "Tree renders, by status.",
	},
	[]string{"status"}, // delivered | discarded | failed
)

var RenderDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "yolka_render_duration_seconds",
		Help:    "Time spent composing a tree image.",
		Buckets: prometheus.DefBuckets,
	},
)

var RenderBusy = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "yolka_render_busy",
		Help: "Render jobs currently being composed.",
	},
)

var DeliveryFailuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yolka_delivery_failures_total",
		Help: "Outbound actions the messaging API rejected, by action kind.",
	},
	[]string{"action"},
)

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
