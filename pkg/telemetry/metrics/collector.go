package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the metrics registry and all gateway metrics.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec

	rateLimitRejections prometheus.Counter
	authFailures        *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry under the given
// metric namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of document conversions by format pair and outcome",
			},
			[]string{"from_format", "to_format", "status"},
		),

		conversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Duration of document conversions in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"from_format", "to_format"},
		),

		rateLimitRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_rejections_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total number of rejected credentials by failure kind",
			},
			[]string{"kind"},
		),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.conversionsTotal,
		c.conversionDuration,
		c.rateLimitRejections,
		c.authFailures,
	)

	return c
}

// Registry exposes the underlying registry for the scrape handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records one completed HTTP request.
func (c *Collector) RecordRequest(route, method, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, method, status).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordConversion records one conversion attempt.
func (c *Collector) RecordConversion(fromFormat, toFormat, status string, duration time.Duration) {
	c.conversionsTotal.WithLabelValues(fromFormat, toFormat, status).Inc()
	c.conversionDuration.WithLabelValues(fromFormat, toFormat).Observe(duration.Seconds())
}

// RecordRateLimitRejection counts a 429.
func (c *Collector) RecordRateLimitRejection() {
	c.rateLimitRejections.Inc()
}

// RecordAuthFailure counts a rejected credential. kind is "unauthorized"
// or "forbidden".
func (c *Collector) RecordAuthFailure(kind string) {
	c.authFailures.WithLabelValues(kind).Inc()
}
