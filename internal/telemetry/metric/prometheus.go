package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "netkeep"

// Registry holds all application metrics.
//
// Each Registry owns a private prometheus.Registry, so tests and multiple
// daemons in one process never collide on registration.
type Registry struct {
	reg *prometheus.Registry

	// Connectivity metrics
	ReconcileCycles    *prometheus.CounterVec
	HotspotTransitions *prometheus.CounterVec
	ConnectAttempts    *prometheus.CounterVec
	CommandFailures    *prometheus.CounterVec

	// Storage metrics
	SettingsFlushes *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors installed.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ReconcileCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "cycles_total",
			Help:      "Reconcile calls by result.",
		}, []string{"result"}),
		HotspotTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hotspot",
			Name:      "transitions_total",
			Help:      "Hotspot enable and disable actions issued.",
		}, []string{"action"}),
		ConnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wifi",
			Name:      "connect_attempts_total",
			Help:      "Client connection attempts by result.",
		}, []string{"result"}),
		CommandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "platform",
			Name:      "command_failures_total",
			Help:      "Failed or timed out external commands.",
		}, []string{"operation"}),
		SettingsFlushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "flushes_total",
			Help:      "Settings file writes by mode.",
		}, []string{"mode"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Management API requests.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Management API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ReconcileCycles,
		r.HotspotTransitions,
		r.ConnectAttempts,
		r.CommandFailures,
		r.SettingsFlushes,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// OrNew returns r, or a fresh registry when r is nil.
func OrNew(r *Registry) *Registry {
	if r == nil {
		return NewRegistry()
	}
	return r
}
