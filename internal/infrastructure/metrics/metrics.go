// Package metrics expone métricas Prometheus del servicio de kiosco.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
)

var _ ports.OperationObserver = (*Metrics)(nil)

const namespace = "kiosk"

// Metrics contadores e histogramas del servicio, sobre un registry propio.
type Metrics struct {
	registry   *prometheus.Registry
	Operations *prometheus.CounterVec
	Requests   *prometheus.CounterVec
	LatencyMS  *prometheus.HistogramVec
}

// New registra las métricas. activeSessions puede ser nil.
func New(activeSessions func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session operations by result and error kind.",
		}, []string{"operation", "result", "kind"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
	}
	reg.MustRegister(m.Operations, m.Requests, m.LatencyMS)
	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Kiosk sessions currently open.",
		}, activeSessions))
	}
	return m
}

// ObserveOperation cuenta la operación con su resultado y la categoría del error.
func (m *Metrics) ObserveOperation(op string, err error) {
	switch {
	case err == nil:
		m.Operations.WithLabelValues(op, "ok", "").Inc()
	case errors.Is(err, domain.ErrStaleResponse):
		m.Operations.WithLabelValues(op, "stale", domain.KindOf(err).String()).Inc()
	default:
		m.Operations.WithLabelValues(op, "error", domain.KindOf(err).String()).Inc()
	}
}

// Registry registry propio (para tests y para el handler).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
