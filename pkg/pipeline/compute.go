package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/graph"
	"github.com/connectolab/graphmetrics/pkg/logging"
	"github.com/connectolab/graphmetrics/pkg/results"
)

// outcome is one (animal, metric) computation: a result, or the skip
// that replaced it.
type outcome struct {
	result results.MetricResult
	skip   *Skip
}

// computeAnimal runs each configured metric over one animal's records.
// Every metric builds its own graph, in the orientation it needs, and
// discards it afterwards.
func (r *Runner) computeAnimal(group graph.RecordGroup, log logging.Logger) []outcome {
	outcomes := make([]outcome, len(r.cfg.Metrics))
	for i, metric := range r.cfg.Metrics {
		start := time.Now()
		result, iterations, err := r.computeMetric(group, metric)
		elapsed := time.Since(start)

		if err != nil {
			r.registry.RecordComputation(metric, "skipped", elapsed, iterations)
			if algorithms.IsConvergenceError(err) {
				// Recoverable per-animal: warn, count, move on
				r.registry.RecordConvergenceFailure(metric)
				log.Warn("metric did not converge, skipping animal",
					logging.Animal(group.Animal),
					logging.Metric(metric),
					logging.Error(err))
			} else {
				log.Error("metric failed, skipping animal",
					logging.Animal(group.Animal),
					logging.Metric(metric),
					logging.Error(err))
			}
			outcomes[i] = outcome{skip: &Skip{
				Animal: group.Animal,
				Metric: metric,
				Reason: err.Error(),
			}}
			continue
		}

		r.registry.RecordComputation(metric, "success", elapsed, iterations)
		log.Debug("metric computed",
			logging.Animal(group.Animal),
			logging.Metric(metric),
			logging.Iterations(iterations),
			logging.Latency(elapsed))
		outcomes[i] = outcome{result: result}
	}
	return outcomes
}

// computeMetric builds the fresh graph a metric needs and runs it.
// The returned iteration count is 0 for non-iterative metrics.
func (r *Runner) computeMetric(group graph.RecordGroup, metric string) (results.MetricResult, int, error) {
	switch metric {
	case results.MetricPageRank:
		g := graph.BuildOne(group.Records, true)
		res, err := algorithms.PageRank(g, r.cfg.PageRankOptions())
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromPageRank(group.Animal, res), res.Iterations, nil

	case results.MetricHITS:
		g := graph.BuildOne(group.Records, true)
		res, err := algorithms.HITS(g, r.cfg.HITSOptions())
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromHITS(group.Animal, res), res.Iterations, nil

	case results.MetricClustering:
		g := graph.BuildOne(group.Records, false)
		res, err := algorithms.WeightedClusteringCoefficient(g)
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromClustering(group.Animal, res), 0, nil

	case results.MetricDegree:
		g := graph.BuildOne(group.Records, false)
		res, err := algorithms.WeightedDegreeCentrality(g)
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromDegree(group.Animal, res), 0, nil

	case results.MetricEigenvector:
		g := graph.BuildOne(group.Records, false)
		res, err := algorithms.EigenvectorCentrality(g, r.cfg.EigenvectorOptions())
		if err != nil {
			var ce *algorithms.ConvergenceError
			if errors.As(err, &ce) {
				return results.MetricResult{}, ce.Iterations, err
			}
			return results.MetricResult{}, 0, err
		}
		return results.FromEigenvector(group.Animal, res), res.Iterations, nil

	case results.MetricCommunity:
		g := graph.BuildOne(group.Records, false)
		res, err := algorithms.CommunityPartition(g, r.cfg.CommunityOptions())
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromPartition(group.Animal, res), 0, nil

	case results.MetricEfficiency:
		g := graph.BuildOne(group.Records, false)
		res, err := algorithms.GlobalLocalEfficiency(g)
		if err != nil {
			return results.MetricResult{}, 0, err
		}
		return results.FromEfficiency(group.Animal, res), 0, nil
	}

	return results.MetricResult{}, 0, fmt.Errorf("unknown metric %q", metric)
}
