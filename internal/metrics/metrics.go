// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the prometheus collectors of the sync engine.
//
// Every [Metrics] owns its own registry, so tests and multiple App instances
// never collide on the global default registerer. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gallery"

// Outcome labels of a single push item.
const (
	OutcomeSynced  = "synced"
	OutcomeDeleted = "deleted"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

type Metrics struct {
	registry *prometheus.Registry

	items        *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	passErrors   *prometheus.CounterVec
	pulled       prometheus.Counter
	pending      prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "items_total",
			Help:      "Push items processed, by operation and outcome.",
		}, []string{"op", "outcome"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pass_duration_seconds",
			Help:      "Duration of pull and push passes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pass"}),
		passErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pass_errors_total",
			Help:      "Passes that ended with an error, by pass and error kind.",
		}, []string{"pass", "kind"}),
		pulled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pulled_photos_total",
			Help:      "Remote photos written into the local catalog by pulls.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pending_items",
			Help:      "Pending items found at the start of the last push pass.",
		}),
	}

	reg.MustRegister(
		m.items,
		m.passDuration,
		m.passErrors,
		m.pulled,
		m.pending,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveItem counts the outcome of one push item.
func (m *Metrics) ObserveItem(op models.SyncOp, outcome string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(string(op), outcome).Inc()
}

// ObservePass records the duration of a pass that started at start.
func (m *Metrics) ObservePass(pass string, start time.Time) {
	if m == nil {
		return
	}
	m.passDuration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
}

func (m *Metrics) PassFailed(pass, kind string) {
	if m == nil {
		return
	}
	m.passErrors.WithLabelValues(pass, kind).Inc()
}

func (m *Metrics) AddPulled(n int) {
	if m == nil {
		return
	}
	m.pulled.Add(float64(n))
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is used by tests to gather values.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
