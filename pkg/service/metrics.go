// Copyright 2024-2026 Aiku AI

package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's Prometheus instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	MessagesReceived prometheus.Counter
	MessageOutcomes  *prometheus.CounterVec
	ParseFailures    prometheus.Counter
	RulesLoaded      prometheus.Gauge
}

// NewMetrics creates and registers all daemon metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridgefmt",
			Subsystem: "messages",
			Name:      "received_total",
			Help:      "Total number of inbound lines received",
		}),
		MessageOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgefmt",
			Subsystem: "messages",
			Name:      "outcomes_total",
			Help:      "Messages processed by rewrite outcome",
		}, []string{"outcome"}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridgefmt",
			Subsystem: "messages",
			Name:      "parse_failures_total",
			Help:      "Inbound lines that could not be parsed as IRC messages",
		}),
		RulesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bridgefmt",
			Subsystem: "rules",
			Name:      "loaded",
			Help:      "Number of rewrite rules currently loaded",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.MessagesReceived,
		m.MessageOutcomes,
		m.ParseFailures,
		m.RulesLoaded,
	)
	return m
}

// Handler serves the metrics registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
