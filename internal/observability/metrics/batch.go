// Package metrics expone los contadores del procesamiento de lotes en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
)

var _ billing.Observer = (*BatchMetrics)(nil)

// BatchMetrics implementa billing.Observer sobre un registry propio.
type BatchMetrics struct {
	registry *prometheus.Registry

	recordsTotal   *prometheus.CounterVec
	itemsDropped   *prometheus.CounterVec
	runsTotal      *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewBatchMetrics registra los colectores bajo namespace (ej. "cotizaciones").
func NewBatchMetrics(namespace string) *BatchMetrics {
	registry := prometheus.NewRegistry()

	recordsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "records_total",
			Help:      "Registros procesados por resultado (ok | invalid).",
		},
		[]string{"outcome"},
	)
	itemsDropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "items_dropped_total",
			Help:      "Ítems descartados por motivo (coercion | truncated).",
		},
		[]string{"reason"},
	)
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Lotes terminados por estado.",
		},
		[]string{"status"},
	)
	renderDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Duración de la generación del documento.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(recordsTotal, itemsDropped, runsTotal, renderDuration, requestTotal, requestDuration)

	return &BatchMetrics{
		registry:        registry,
		recordsTotal:    recordsTotal,
		itemsDropped:    itemsDropped,
		runsTotal:       runsTotal,
		renderDuration:  renderDuration,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}
}

// Handler sirve el registry en formato de exposición de Prometheus.
func (m *BatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry permite inspeccionar los colectores (tests).
func (m *BatchMetrics) Registry() *prometheus.Registry { return m.registry }

func (m *BatchMetrics) RecordProcessed(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "invalid"
	}
	m.recordsTotal.WithLabelValues(outcome).Inc()
}

func (m *BatchMetrics) ItemsDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	m.itemsDropped.WithLabelValues(reason).Add(float64(n))
}

func (m *BatchMetrics) RunFinished(status string) {
	m.runsTotal.WithLabelValues(status).Inc()
}

func (m *BatchMetrics) RenderObserved(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.renderDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Middleware cuenta las peticiones de Fiber por ruta registrada (no por URL
// cruda, para no explotar la cardinalidad con /documents/:index).
func (m *BatchMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		m.requestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
