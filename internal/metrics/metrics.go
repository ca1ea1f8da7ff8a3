// Package metrics exposes HTTP metrics to Prometheus and business counters
// to CloudWatch.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Business counters
const (
	OrdersFinalized  = "OrdersFinalized"
	CheckoutsCreated = "CheckoutsCreated"
	RefundsDecided   = "RefundsDecided"
	UsersRegistered  = "UsersRegistered"
)

// Counter records a business event. aws.MetricsRecorder implements it.
type Counter interface {
	Count(ctx context.Context, name string, dims map[string]string) error
}

// NopCounter drops every count.
type NopCounter struct{}

func (NopCounter) Count(context.Context, string, map[string]string) error { return nil }

// ServerMetrics holds the HTTP collectors in their own registry.
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	registry  *prometheus.Registry
}

// NewServerMetrics builds and registers the collectors for service.
func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, collectors.NewGoCollector())
	return &ServerMetrics{Requests: requests, LatencyMS: latency, registry: reg}
}

// Middleware observes every request under its route template.
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
