// Package observability provides Prometheus metrics for the legacy binaries.
package observability

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moose735/TLOED/internal/diag"
)

const defaultNamespace = "legacy"

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	ComputationsTotal   *prometheus.CounterVec
	ComputationDuration *prometheus.HistogramVec
	BadgesEmitted       *prometheus.CounterVec
	Diagnostics         *prometheus.CounterVec

	// History metrics
	HistorySeasons prometheus.Gauge
	HistoryLoads   *prometheus.CounterVec

	// Server metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulComputation prometheus.Gauge
}

// NewMetrics registers every metric with reg. A nil reg uses the default
// Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		ComputationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computations_total",
			Help:      "Total number of analytics computations by kind and status",
		}, []string{"kind", "status"}),
		ComputationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computation_duration_seconds",
			Help:      "Analytics computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		BadgesEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "badges_emitted_total",
			Help:      "Total number of badges produced by category",
		}, []string{"category"}),
		Diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "diagnostics_total",
			Help:      "Total number of diagnostics by component and level",
		}, []string{"component", "level"}),

		HistorySeasons: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "seasons",
			Help:      "Number of seasons in the loaded league history",
		}),
		HistoryLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "loads_total",
			Help:      "Total number of league history loads by status",
		}, []string{"status"}),

		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool calls by tool and status",
		}, []string{"tool", "status"}),
		ToolDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "tool_duration_seconds",
			Help:      "MCP tool call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),

		LastSuccessfulComputation: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_computation_timestamp",
			Help:      "Unix timestamp of the last successful computation",
		}),
	}
}

// Handler serves the metrics gathered by g. A nil g serves the default
// registry.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordComputation records one analytics run.
func (m *Metrics) RecordComputation(kind string, started time.Time, err error) {
	m.ComputationsTotal.WithLabelValues(kind, status(err)).Inc()
	m.ComputationDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err == nil {
		m.LastSuccessfulComputation.SetToCurrentTime()
	}
}

// RecordBadges adds per-category badge counts.
func (m *Metrics) RecordBadges(byCategory map[string]int) {
	for cat, n := range byCategory {
		m.BadgesEmitted.WithLabelValues(cat).Add(float64(n))
	}
}

// RecordHistoryLoad records a history load and, on success, its size.
func (m *Metrics) RecordHistoryLoad(seasons int, err error) {
	m.HistoryLoads.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.HistorySeasons.Set(float64(seasons))
	}
}

// RecordToolCall records an MCP tool invocation.
func (m *Metrics) RecordToolCall(tool string, started time.Time, err error) {
	m.ToolCalls.WithLabelValues(tool, status(err)).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(time.Since(started).Seconds())
}

// Sink counts diagnostics per top-level component ("badges/bully" counts as
// "badges").
func (m *Metrics) Sink() diag.Sink {
	return diag.Func(func(e diag.Event) {
		component, _, _ := strings.Cut(e.Component, "/")
		m.Diagnostics.WithLabelValues(component, e.Level.String()).Inc()
	})
}
