// Package metrics exposes Prometheus collectors for the COI orchestrator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	records           prometheus.Gauge
	properties        prometheus.Gauge
	remindersTotal    *prometheus.CounterVec
}

// New creates and registers the collectors. A nil registry gets a fresh one
// that also carries the Go runtime and process collectors.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := &Metrics{registry: registry}

	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coi_orchestrator_operations_total",
			Help: "Total number of orchestrator operations",
		},
		[]string{"operation", "result"}, // result: success, error
	)
	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coi_orchestrator_operation_duration_seconds",
			Help:    "Time taken by orchestrator operations including persistence",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)
	m.records = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coi_records",
		Help: "Number of COI records in the store",
	})
	m.properties = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coi_properties",
		Help: "Number of properties in the store",
	})
	m.remindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coi_reminders_recorded_total",
			Help: "Total number of reminder events recorded",
		},
		[]string{"type"},
	)

	for _, c := range []prometheus.Collector{
		m.operationsTotal, m.operationDuration, m.records, m.properties, m.remindersTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNop returns collectors on a throwaway registry, for tests.
func NewNop() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOperation records one orchestrator call.
func (m *Metrics) ObserveOperation(operation string, seconds float64, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) SetCollectionSizes(records, properties int) {
	m.records.Set(float64(records))
	m.properties.Set(float64(properties))
}

func (m *Metrics) AddReminders(typ string, n int) {
	m.remindersTotal.WithLabelValues(typ).Add(float64(n))
}

// Operations exposes the operations counter for assertions.
func (m *Metrics) Operations() *prometheus.CounterVec { return m.operationsTotal }
