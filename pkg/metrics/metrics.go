package metrics

import (
	"runtime"
	"time"
)

// RecordRun records a completed analysis run with its duration
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordRowsParsed adds accepted edge rows to the running total
func (r *Registry) RecordRowsParsed(n int) {
	r.RowsParsedTotal.Add(float64(n))
}

// RecordParseError records a rejected edge row by error kind
func (r *Registry) RecordParseError(kind string) {
	r.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// UpdateGraphSizes updates the per-run graph size gauges
func (r *Registry) UpdateGraphSizes(animals, nodes, edges int) {
	r.AnimalsTotal.Set(float64(animals))
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordComputation records one per-animal metric computation
func (r *Registry) RecordComputation(metric, status string, duration time.Duration, iterations int) {
	r.ComputationsTotal.WithLabelValues(metric, status).Inc()
	r.ComputationDuration.WithLabelValues(metric).Observe(duration.Seconds())
	if iterations > 0 {
		r.ComputationIterations.WithLabelValues(metric).Observe(float64(iterations))
	}
}

// RecordConvergenceFailure records a computation skipped for an animal
// because it did not converge
func (r *Registry) RecordConvergenceFailure(metric string) {
	r.ConvergenceFailuresTotal.WithLabelValues(metric).Inc()
}

// RecordTableWritten records one written output table
func (r *Registry) RecordTableWritten(format string) {
	r.TablesWritten.WithLabelValues(format).Inc()
}

// UpdateSystemMetrics refreshes process-level gauges
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	r.MemoryAllocBytes.Set(float64(stats.Alloc))
	r.MemorySysBytes.Set(float64(stats.Sys))
}
