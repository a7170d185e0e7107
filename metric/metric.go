// Package metric implements pipe activity metrics backed by Prometheus.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric counts pushes, pops, refusals and flushes across a graph's pipes
// and tracks how many packets and bytes each pipe currently holds. It
// implements the flow.Metric interface.
type Metric struct {
	registry *prometheus.Registry

	pushes  *prometheus.CounterVec
	pops    *prometheus.CounterVec
	refused *prometheus.CounterVec
	flushes *prometheus.CounterVec

	queued *prometheus.GaugeVec
	weight *prometheus.GaugeVec
}

// New returns a Metric with its own registry.
func New() *Metric {
	m := &Metric{
		registry: prometheus.NewRegistry(),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flow",
			Name:      "pipe_pushes_total",
			Help:      "Packets accepted by the pipe.",
		}, []string{"pipe"}),
		pops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flow",
			Name:      "pipe_pops_total",
			Help:      "Packets extracted from the pipe.",
		}, []string{"pipe"}),
		refused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flow",
			Name:      "pipe_refusals_total",
			Help:      "Pushes refused because a pipe cap would be exceeded.",
		}, []string{"pipe"}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flow",
			Name:      "pipe_flushes_total",
			Help:      "Times the pipe was flushed.",
		}, []string{"pipe"}),
		queued: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flow",
			Name:      "pipe_length",
			Help:      "Packets currently queued in the pipe.",
		}, []string{"pipe"}),
		weight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flow",
			Name:      "pipe_weight_bytes",
			Help:      "Bytes currently queued in the pipe.",
		}, []string{"pipe"}),
	}
	m.registry.MustRegister(m.pushes, m.pops, m.refused, m.flushes, m.queued, m.weight)
	return m
}

// Registry exposes the underlying registry for scraping.
func (m *Metric) Registry() *prometheus.Registry {
	return m.registry
}

// Push records a packet of size bytes accepted by the pipe.
func (m *Metric) Push(pipe string, size int) {
	m.pushes.WithLabelValues(pipe).Inc()
	m.queued.WithLabelValues(pipe).Inc()
	m.weight.WithLabelValues(pipe).Add(float64(size))
}

// Pop records a packet of size bytes extracted from the pipe.
func (m *Metric) Pop(pipe string, size int) {
	m.pops.WithLabelValues(pipe).Inc()
	m.queued.WithLabelValues(pipe).Dec()
	m.weight.WithLabelValues(pipe).Sub(float64(size))
}

// Refused records a push the pipe turned down.
func (m *Metric) Refused(pipe string) {
	m.refused.WithLabelValues(pipe).Inc()
}

// Flushed records the pipe dropping everything it held.
func (m *Metric) Flushed(pipe string) {
	m.flushes.WithLabelValues(pipe).Inc()
	m.queued.WithLabelValues(pipe).Set(0)
	m.weight.WithLabelValues(pipe).Set(0)
}
