package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the analysis pipeline
type Registry struct {
	// Pipeline Metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	RowsParsedTotal  prometheus.Counter
	ParseErrorsTotal *prometheus.CounterVec
	AnimalsTotal     prometheus.Gauge
	GraphNodesTotal  prometheus.Gauge
	GraphEdgesTotal  prometheus.Gauge
	TablesWritten    *prometheus.CounterVec

	// Algorithm Metrics
	ComputationsTotal        *prometheus.CounterVec
	ComputationDuration      *prometheus.HistogramVec
	ComputationIterations    *prometheus.HistogramVec
	ConvergenceFailuresTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initPipelineMetrics()
	r.initAlgorithmMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
