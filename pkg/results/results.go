// Package results collects per-animal metric outputs into uniform
// tables. The aggregator owns row ordering; writers downstream only
// format what they are handed.
package results

import "sort"

// Metric identifiers, also used for output file naming.
const (
	MetricPageRank    = "pagerank"
	MetricHITS        = "hits"
	MetricClustering  = "clustering"
	MetricDegree      = "degree"
	MetricEigenvector = "eigenvector"
	MetricCommunity   = "community"
	MetricEfficiency  = "efficiency"
)

// Canonical column names shared by every output format.
const (
	ColumnAnimal           = "Animal"
	ColumnNeuron           = "Neuron"
	ColumnPageRank         = "PageRank"
	ColumnHubScore         = "Hub Score"
	ColumnAuthorityScore   = "Authority Score"
	ColumnClustering       = "Weighted Clustering Coefficient"
	ColumnWeightedDegree   = "Weighted Degree"
	ColumnNormalizedDegree = "Normalized Weighted Degree"
	ColumnEigenvector      = "Eigenvector Centrality"
	ColumnCommunity        = "Community"
	ColumnGlobalEfficiency = "Global Efficiency"
	ColumnLocalEfficiency  = "Local Efficiency"
)

// AllMetrics returns the metric identifiers in canonical order.
func AllMetrics() []string {
	return []string{
		MetricPageRank,
		MetricHITS,
		MetricClustering,
		MetricDegree,
		MetricEigenvector,
		MetricCommunity,
		MetricEfficiency,
	}
}

// KnownMetric reports whether name is a recognized metric identifier.
func KnownMetric(name string) bool {
	for _, metric := range AllMetrics() {
		if metric == name {
			return true
		}
	}
	return false
}

// MetricResult is one metric computed for one animal. Node-level
// metrics fill NodeScores (one slice per node, aligned with Columns);
// graph-level metrics set GraphLevel and fill GraphScores keyed by
// column name.
type MetricResult struct {
	Animal      string
	Metric      string
	Columns     []string
	NodeScores  map[uint64][]float64
	GraphScores map[string]float64
	GraphLevel  bool
}

// Table is one output table. Node-level tables carry Animal and Neuron
// columns ahead of the score columns; graph-level tables carry Animal
// and one row per animal. Cells are string (animal), uint64 (neuron),
// or float64 (scores).
type Table struct {
	Metric  string
	Columns []string
	Rows    [][]any
}

// Aggregate merges per-animal results into one table per metric. Tables
// appear in metric first-occurrence order; within a table, rows follow
// the animal order of the input and ascend by neuron ID inside each
// animal.
func Aggregate(metricResults []MetricResult) []Table {
	order := make([]string, 0)
	grouped := make(map[string][]MetricResult)
	for _, r := range metricResults {
		if _, ok := grouped[r.Metric]; !ok {
			order = append(order, r.Metric)
		}
		grouped[r.Metric] = append(grouped[r.Metric], r)
	}

	tables := make([]Table, 0, len(order))
	for _, metric := range order {
		group := grouped[metric]
		if group[0].GraphLevel {
			tables = append(tables, graphLevelTable(metric, group))
		} else {
			tables = append(tables, nodeLevelTable(metric, group))
		}
	}
	return tables
}

func nodeLevelTable(metric string, group []MetricResult) Table {
	table := Table{
		Metric:  metric,
		Columns: append([]string{ColumnAnimal, ColumnNeuron}, group[0].Columns...),
		Rows:    make([][]any, 0),
	}

	for _, r := range group {
		for _, nodeID := range sortedNodeIDs(r.NodeScores) {
			row := make([]any, 0, len(table.Columns))
			row = append(row, r.Animal, nodeID)
			for _, score := range r.NodeScores[nodeID] {
				row = append(row, score)
			}
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

func sortedNodeIDs(scores map[uint64][]float64) []uint64 {
	ids := make([]uint64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func graphLevelTable(metric string, group []MetricResult) Table {
	table := Table{
		Metric:  metric,
		Columns: append([]string{ColumnAnimal}, group[0].Columns...),
		Rows:    make([][]any, 0, len(group)),
	}

	for _, r := range group {
		row := make([]any, 0, len(table.Columns))
		row = append(row, r.Animal)
		for _, column := range r.Columns {
			row = append(row, r.GraphScores[column])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
