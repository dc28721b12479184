package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the collectors of one server. Each server owns its registry.
type metrics struct {
	registry *prometheus.Registry

	resolutionsTotal   *prometheus.CounterVec
	warningsTotal      *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	lastYield          *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bomyield_resolutions_total",
				Help: "Number of resolutions by strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		),
		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bomyield_resolution_warnings_total",
				Help: "Number of recoverable catalog defects met during resolution.",
			},
			[]string{"code"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bomyield_resolution_duration_seconds",
				Help:    "Time taken to load a catalog snapshot and resolve it.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		lastYield: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bomyield_last_yield_units",
				Help: "Maximum buildable units reported by the last resolution of a bundle.",
			},
			[]string{"bundle", "strategy"},
		),
	}

	m.registry.MustRegister(
		m.resolutionsTotal,
		m.warningsTotal,
		m.resolutionDuration,
		m.lastYield,
		collectors.NewGoCollector(),
	)

	return m
}
