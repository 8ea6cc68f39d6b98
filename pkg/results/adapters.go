package results

import "github.com/connectolab/graphmetrics/pkg/algorithms"

// FromPageRank wraps a PageRank result for one animal.
func FromPageRank(animal string, r *algorithms.PageRankResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.Scores))
	for nodeID, score := range r.Scores {
		scores[nodeID] = []float64{score}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricPageRank,
		Columns:    []string{ColumnPageRank},
		NodeScores: scores,
	}
}

// FromHITS wraps hub and authority scores for one animal.
func FromHITS(animal string, r *algorithms.HITSResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.Hubs))
	for nodeID, hub := range r.Hubs {
		scores[nodeID] = []float64{hub, r.Authorities[nodeID]}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricHITS,
		Columns:    []string{ColumnHubScore, ColumnAuthorityScore},
		NodeScores: scores,
	}
}

// FromClustering wraps weighted clustering coefficients for one animal.
func FromClustering(animal string, r *algorithms.ClusteringResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.Coefficients))
	for nodeID, c := range r.Coefficients {
		scores[nodeID] = []float64{c}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricClustering,
		Columns:    []string{ColumnClustering},
		NodeScores: scores,
	}
}

// FromDegree wraps raw and normalized weighted degree for one animal.
func FromDegree(animal string, r *algorithms.DegreeResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.Raw))
	for nodeID, raw := range r.Raw {
		scores[nodeID] = []float64{raw, r.Normalized[nodeID]}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricDegree,
		Columns:    []string{ColumnWeightedDegree, ColumnNormalizedDegree},
		NodeScores: scores,
	}
}

// FromEigenvector wraps eigenvector centrality scores for one animal.
func FromEigenvector(animal string, r *algorithms.EigenvectorResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.Scores))
	for nodeID, score := range r.Scores {
		scores[nodeID] = []float64{score}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricEigenvector,
		Columns:    []string{ColumnEigenvector},
		NodeScores: scores,
	}
}

// FromPartition wraps community labels for one animal. Labels are small
// non-negative integers and stay exact through float64 cells.
func FromPartition(animal string, r *algorithms.PartitionResult) MetricResult {
	scores := make(map[uint64][]float64, len(r.NodeCommunity))
	for nodeID, label := range r.NodeCommunity {
		scores[nodeID] = []float64{float64(label)}
	}
	return MetricResult{
		Animal:     animal,
		Metric:     MetricCommunity,
		Columns:    []string{ColumnCommunity},
		NodeScores: scores,
	}
}

// FromEfficiency wraps the two graph-level efficiency scores for one
// animal.
func FromEfficiency(animal string, r *algorithms.EfficiencyResult) MetricResult {
	return MetricResult{
		Animal:  animal,
		Metric:  MetricEfficiency,
		Columns: []string{ColumnGlobalEfficiency, ColumnLocalEfficiency},
		GraphScores: map[string]float64{
			ColumnGlobalEfficiency: r.Global,
			ColumnLocalEfficiency:  r.Local,
		},
		GraphLevel: true,
	}
}
