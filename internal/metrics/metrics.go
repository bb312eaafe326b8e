// Package metrics exposes Prometheus counters for HTTP traffic and auth events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors
type Metrics struct {
	registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthEventsTotal *prometheus.CounterVec
}

// New creates a registry with the Go/process collectors and the service metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsvc_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authsvc_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		AuthEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsvc_auth_events_total",
				Help: "Total number of audit events by type and outcome",
			},
			[]string{"event", "success"},
		),
	}

	registry.MustRegister(m.RequestsTotal)
	registry.MustRegister(m.RequestDuration)
	registry.MustRegister(m.AuthEventsTotal)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// AuditRecorder counts audit events before handing them to the next logger
type AuditRecorder struct {
	next    domain.AuditLogger
	metrics *Metrics
}

// NewAuditRecorder wraps next so every event is also counted
func NewAuditRecorder(next domain.AuditLogger, m *Metrics) *AuditRecorder {
	return &AuditRecorder{next: next, metrics: m}
}

var _ domain.AuditLogger = (*AuditRecorder)(nil)

// LogEvent implements domain.AuditLogger
func (r *AuditRecorder) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	r.metrics.AuthEventsTotal.WithLabelValues(string(event.EventType), strconv.FormatBool(event.Success)).Inc()
	if r.next == nil {
		return nil
	}
	return r.next.LogEvent(ctx, event)
}
