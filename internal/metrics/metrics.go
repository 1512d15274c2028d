// Package metrics exposes Prometheus counters for the cloud service on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	CloudsGenerated *prometheus.CounterVec
	CloudWords      prometheus.Histogram
	WordsSkipped    prometheus.Counter
	Exports         *prometheus.CounterVec

	Sessions prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CloudsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clouds_generated_total",
				Help:      "Cloud generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		CloudWords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cloud_words",
				Help:      "Number of words kept per generated cloud",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		WordsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_words_skipped_total",
				Help:      "Words the placer could not fit",
			},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Exports by format and status",
			},
			[]string{"format", "status"},
		),
		Sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Sessions currently held in memory",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.CloudsGenerated,
		c.CloudWords,
		c.WordsSkipped,
		c.Exports,
		c.Sessions,
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCloud counts one generation; kept is ignored on failure.
func (c *Collector) RecordCloud(outcome string, kept int) {
	c.CloudsGenerated.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		c.CloudWords.Observe(float64(kept))
	}
}

func (c *Collector) RecordExport(format string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.Exports.WithLabelValues(format, status).Inc()
}

const (
	OutcomeOK            = "ok"
	OutcomeInvalidConfig = "invalid_config"
	OutcomeEmpty         = "empty"
	OutcomeError         = "error"
)
