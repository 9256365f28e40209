package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus metrics served on /metrics.
//
// Registered once globally; a second server in the same process reuses
// the same collectors instead of panicking on duplicate registration.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ExportsTotal    *prometheus.CounterVec
	ExportDuration  prometheus.Histogram
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "docforge_http_requests_total",
					Help: "Total HTTP requests by method, endpoint and status",
				},
				[]string{"method", "endpoint", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "docforge_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
				},
				[]string{"method", "endpoint"},
			),
			ExportsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "docforge_exports_total",
					Help: "Export runs by document kind and outcome",
				},
				[]string{"kind", "outcome"},
			),
			ExportDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "docforge_export_duration_seconds",
					Help:    "End-to-end export pipeline duration in seconds",
					Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
				},
			),
		}
	})
	return globalMetrics
}

// ObserveExport records one pipeline run's outcome and latency.
func (m *Metrics) ObserveExport(result *workflow.Result, err error, elapsed time.Duration) {
	kind := "unknown"
	if result != nil {
		kind = result.Kind.String()
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ExportsTotal.WithLabelValues(kind, outcome).Inc()
	m.ExportDuration.Observe(elapsed.Seconds())
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "/"
			}
			m.RequestsTotal.WithLabelValues(
				c.Request().Method,
				endpoint,
				strconv.Itoa(c.Response().Status),
			).Inc()
			m.RequestDuration.WithLabelValues(c.Request().Method, endpoint).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
