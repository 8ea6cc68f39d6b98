package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAlgorithmMetrics() {
	r.ComputationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmetrics_computations_total",
			Help: "Total number of per-animal metric computations",
		},
		[]string{"metric", "status"},
	)

	r.ComputationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphmetrics_computation_duration_seconds",
			Help:    "Metric computation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"metric"},
	)

	r.ComputationIterations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphmetrics_computation_iterations",
			Help:    "Iterations used by iterative metrics",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 500, 1000},
		},
		[]string{"metric"},
	)

	r.ConvergenceFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmetrics_convergence_failures_total",
			Help: "Total number of per-animal computations that failed to converge",
		},
		[]string{"metric"},
	)
}
