// Package metrics exposes the Prometheus instruments of the workflow service.
// Each Metrics value owns its registry so tests and multiple engines never
// collide on global registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freight"

// EDI message outcomes.
const (
	OutcomeSent        = "sent"
	OutcomeSkipped     = "skipped"
	OutcomeMissingData = "missing_data"
	OutcomeFailed      = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	stepCompletions      *prometheus.CounterVec
	persistenceFailures  *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	ediMessages          *prometheus.CounterVec
	dirtyWorkflows       prometheus.Gauge
}

// New builds the instruments and registers them, with the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "step_completions_total",
			Help:      "Workflow steps completed, by step id.",
		}, []string{"step"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "persistence_failures_total",
			Help:      "Repository calls that failed after all retries, by operation.",
		}, []string{"operation"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "notification_failures_total",
			Help:      "Failed side-channel deliveries, by channel.",
		}, []string{"channel"}),
		ediMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "edi",
			Name:      "messages_total",
			Help:      "Outbound EDI messages, by transaction set and outcome.",
		}, []string{"transaction", "outcome"}),
		dirtyWorkflows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "dirty_workflows",
			Help:      "Cached workflows whose durable copy is known to be stale.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stepCompletions,
		m.persistenceFailures,
		m.notificationFailures,
		m.ediMessages,
		m.dirtyWorkflows,
	)
	return m
}

func (m *Metrics) StepCompleted(step string) {
	m.stepCompletions.WithLabelValues(step).Inc()
}

func (m *Metrics) PersistenceFailed(operation string) {
	m.persistenceFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) NotificationFailed(channel string) {
	m.notificationFailures.WithLabelValues(channel).Inc()
}

func (m *Metrics) EDIMessage(transaction, outcome string) {
	m.ediMessages.WithLabelValues(transaction, outcome).Inc()
}

func (m *Metrics) SetDirtyWorkflows(n int) {
	m.dirtyWorkflows.Set(float64(n))
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
