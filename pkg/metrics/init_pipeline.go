package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmetrics_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphmetrics_run_duration_seconds",
			Help:    "End-to-end analysis run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0},
		},
	)

	r.RowsParsedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphmetrics_rows_parsed_total",
			Help: "Total number of edge rows parsed",
		},
	)

	r.ParseErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmetrics_parse_errors_total",
			Help: "Total number of rejected edge rows",
		},
		[]string{"kind"},
	)

	r.AnimalsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphmetrics_animals",
			Help: "Number of animals in the current run",
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphmetrics_graph_nodes",
			Help: "Total neurons across all animal graphs in the current run",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphmetrics_graph_edges",
			Help: "Total edges across all animal graphs in the current run",
		},
	)

	r.TablesWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmetrics_tables_written_total",
			Help: "Total number of metric tables written",
		},
		[]string{"format"},
	)
}
