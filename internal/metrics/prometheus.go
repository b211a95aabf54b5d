// Package metrics exposes Prometheus metrics for the normalization
// engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all fwlens metrics.
type Registry struct {
	// Refresh metrics
	RefreshTotal  *prometheus.CounterVec
	RefreshErrors *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec

	// Snapshot state
	RulesParsed   *prometheus.GaugeVec
	ToolAvailable *prometheus.GaugeVec

	// API metrics
	APIRequests *prometheus.CounterVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = &Registry{
			RefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fwlens_refresh_total",
				Help: "Total number of refresh attempts per backend",
			}, []string{"backend"}),
			RefreshErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fwlens_refresh_errors_total",
				Help: "Refresh attempts that failed to acquire the listing",
			}, []string{"backend"}),
			ParseDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "fwlens_parse_duration_seconds",
				Help:    "Time spent normalizing one backend listing",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			}, []string{"backend"}),
			RulesParsed: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "fwlens_rules_parsed",
				Help: "Rules or zone elements in the latest snapshot",
			}, []string{"backend"}),
			ToolAvailable: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "fwlens_tool_available",
				Help: "Whether the backend tool is installed and responding",
			}, []string{"backend"}),
			APIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fwlens_api_requests_total",
				Help: "API requests by path and status",
			}, []string{"path", "status"}),
		}
	})
	return registry
}
