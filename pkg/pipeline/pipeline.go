// Package pipeline orchestrates one analysis run end to end: read the
// edge table, parse records, build per-animal graphs, compute the
// selected metrics, and write one output table per metric.
//
// Error policy: parser failures are batch-fatal because no trustworthy
// graph can be built from a corrupt table. Per-animal computation
// failures (eigenvector non-convergence) skip that animal's result for
// that metric and never abort sibling animals.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/connectolab/graphmetrics/pkg/config"
	"github.com/connectolab/graphmetrics/pkg/graph"
	"github.com/connectolab/graphmetrics/pkg/logging"
	"github.com/connectolab/graphmetrics/pkg/metrics"
	"github.com/connectolab/graphmetrics/pkg/parallel"
	"github.com/connectolab/graphmetrics/pkg/records"
	"github.com/connectolab/graphmetrics/pkg/results"
	"github.com/connectolab/graphmetrics/pkg/tabular"
)

// Runner executes analysis runs for one configuration.
type Runner struct {
	cfg      *config.AnalysisConfig
	logger   logging.Logger
	registry *metrics.Registry
}

// NewRunner creates a runner. A nil logger falls back to the default
// logger; a nil registry falls back to the default registry.
func NewRunner(cfg *config.AnalysisConfig, logger logging.Logger, registry *metrics.Registry) *Runner {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if registry == nil {
		registry = metrics.DefaultRegistry()
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger.With(logging.Component("pipeline")),
		registry: registry,
	}
}

// Summary describes one completed run.
type Summary struct {
	RunID    string
	Rows     int      // Edge rows parsed
	Animals  []string // Animals in first-occurrence order
	Nodes    int      // Neurons summed across animal graphs
	Edges    int      // Edges summed across animal graphs
	Metrics  []string // Metrics computed, in configured order
	Tables   []string // Output file paths in table order
	Skipped  []Skip   // Per-animal computations dropped from the output
	Duration time.Duration
}

// Skip records one (animal, metric) computation left out of the output.
type Skip struct {
	Animal string
	Metric string
	Reason string
}

// Run executes one batch. Each run is tagged with a fresh run ID; the
// configured timeout, if any, bounds the whole run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	log := r.logger.With(logging.RunID(runID))
	start := time.Now()

	if timeout := r.cfg.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.Info("starting analysis run",
		logging.Path(r.cfg.Input.Path),
		logging.Int("workers", r.cfg.GetWorkers()))

	summary, err := r.run(ctx, log)
	elapsed := time.Since(start)
	if err != nil {
		r.registry.RecordRun("failed", elapsed)
		log.Error("analysis run failed", logging.Error(err), logging.Latency(elapsed))
		return nil, err
	}

	summary.RunID = runID
	summary.Duration = elapsed
	r.registry.RecordRun("completed", elapsed)
	log.Info("analysis run completed",
		logging.Int("rows", summary.Rows),
		logging.Int("animals", len(summary.Animals)),
		logging.Int("tables", len(summary.Tables)),
		logging.Int("skipped", len(summary.Skipped)),
		logging.Latency(elapsed))
	return summary, nil
}

func (r *Runner) run(ctx context.Context, log logging.Logger) (*Summary, error) {
	rows, err := tabular.ReadEdgeTable(r.cfg.Input.Path, r.cfg.ReadOptions())
	if err != nil {
		return nil, err
	}

	recs, err := records.ParseRows(rows)
	if err != nil {
		r.recordParseFailure(err)
		return nil, err
	}
	r.registry.RecordRowsParsed(len(recs))

	groups := graph.GroupByAnimal(recs)
	summary := &Summary{
		Rows:    len(recs),
		Animals: animalNames(groups),
		Metrics: r.cfg.Metrics,
	}
	summary.Nodes, summary.Edges = graphSizes(groups)
	r.registry.UpdateGraphSizes(len(groups), summary.Nodes, summary.Edges)
	log.Info("edge table loaded",
		logging.Int("rows", summary.Rows),
		logging.Int("animals", len(groups)),
		logging.Int("nodes", summary.Nodes),
		logging.Int("edges", summary.Edges))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	perAnimal := r.computeAnimals(groups, log)

	// Flatten metric-major so the aggregator emits tables in configured
	// metric order, each table walking animals in first-occurrence order
	flat := make([]results.MetricResult, 0, len(groups)*len(r.cfg.Metrics))
	for m := range r.cfg.Metrics {
		for a := range groups {
			c := perAnimal[a][m]
			if c.skip != nil {
				summary.Skipped = append(summary.Skipped, *c.skip)
				continue
			}
			flat = append(flat, c.result)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := results.Aggregate(flat)
	opts := r.cfg.WriteOptions()
	paths, err := tabular.WriteTables(r.cfg.Output.Dir, tables, opts)
	if err != nil {
		return nil, err
	}
	for range paths {
		r.registry.RecordTableWritten(string(opts.Format))
	}
	summary.Tables = paths

	return summary, nil
}

// computeAnimals runs every configured metric for every animal and
// returns the outcomes indexed [animal][metric]. With more than one
// worker, animals are dispatched onto a pool; each task writes only its
// own slot, so collection order never depends on completion order.
func (r *Runner) computeAnimals(groups []graph.RecordGroup, log logging.Logger) [][]outcome {
	out := make([][]outcome, len(groups))

	workers := r.cfg.GetWorkers()
	if workers > len(groups) {
		workers = len(groups)
	}
	if workers <= 1 {
		for i, group := range groups {
			out[i] = r.computeAnimal(group, log)
		}
		return out
	}

	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		// An unusable pool degrades to the serial path
		log.Warn("worker pool unavailable, computing serially", logging.Error(err))
		for i, group := range groups {
			out[i] = r.computeAnimal(group, log)
		}
		return out
	}
	for i, group := range groups {
		i, group := i, group
		pool.Submit(func() {
			out[i] = r.computeAnimal(group, log)
		})
	}
	pool.Wait()
	return out
}

// recordParseFailure classifies a batch-fatal parser error for the
// parse-error counter.
func (r *Runner) recordParseFailure(err error) {
	switch {
	case records.IsMalformedPair(err):
		r.registry.RecordParseError("malformed_pair")
	case records.IsInvalidWeight(err):
		r.registry.RecordParseError("invalid_weight")
	default:
		r.registry.RecordParseError("other")
	}
}

func animalNames(groups []graph.RecordGroup) []string {
	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.Animal
	}
	return names
}

// graphSizes sums node and edge counts across animals using throwaway
// undirected graphs; the per-metric graphs are built separately.
func graphSizes(groups []graph.RecordGroup) (nodes, edges int) {
	for _, group := range groups {
		g := graph.BuildOne(group.Records, false)
		nodes += g.NodeCount()
		edges += g.EdgeCount()
	}
	return nodes, edges
}
