// Package metrics holds the Prometheus collectors shared by the cache, the
// upstream fetchers, the render pipeline and the HTTP layer.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the service exports.
type Metrics struct {
	CacheRequests    *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	PipelineDuration *prometheus.HistogramVec
	PipelineFailures *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	BatteryLevel     prometheus.Gauge
}

// Singleton pattern for metrics (avoid double registration in tests).
var (
	instance        *Metrics
	once            sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
	defaultGatherer = prometheus.DefaultGatherer
)

// Get returns the process-wide collectors, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		factory := promauto.With(defaultRegistry)
		instance = &Metrics{
			CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "dashboard_cache_requests_total",
				Help: "Hour-bucket cache lookups by source and result (hit, miss, error)",
			}, []string{"source", "result"}),
			UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "dashboard_upstream_requests_total",
				Help: "Upstream API calls by source and outcome",
			}, []string{"source", "outcome"}),
			UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "dashboard_upstream_request_duration_seconds",
				Help:    "Time taken by upstream API calls",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			}, []string{"source"}),
			PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "dashboard_pipeline_stage_duration_seconds",
				Help:    "Time taken by render pipeline stages",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			}, []string{"stage"}),
			PipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "dashboard_pipeline_failures_total",
				Help: "Render pipeline failures by stage",
			}, []string{"stage"}),
			HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "HTTP requests by route and status code",
			}, []string{"route", "method", "status"}),
			HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "dashboard_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			}, []string{"route", "method"}),
			BatteryLevel: factory.NewGauge(prometheus.GaugeOpts{
				Name: "dashboard_device_battery_level",
				Help: "Last battery level reported by the e-ink device",
			}),
		}
	})
	return instance
}

// ResetForTesting swaps in a fresh registry and returns it.
// This should only be called from tests.
func ResetForTesting() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	defaultRegistry = reg
	defaultGatherer = reg
	instance = nil
	once = sync.Once{}
	return reg
}

// Gatherer returns the registry the collectors live in, for /metrics.
func Gatherer() prometheus.Gatherer {
	return defaultGatherer
}
