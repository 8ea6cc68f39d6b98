package algorithms

import (
	"math"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// ClusteringResult contains weighted clustering coefficients
type ClusteringResult struct {
	Coefficients map[uint64]float64 // Node ID -> weighted clustering coefficient
	Average      float64            // Mean coefficient over all nodes
	TopNodes     []RankedNode
}

// WeightedClusteringCoefficient computes per-node clustering from
// triangle edge weights. With every weight scaled by the graph's maximum
// weight, each triangle through v contributes the geometric mean of its
// three scaled weights, counted once per ordered neighbor pair, and the
// total is divided by |N(v)|·(|N(v)|-1). Nodes with fewer than two
// neighbors score 0. Self-loops are excluded from neighbor sets.
func WeightedClusteringCoefficient(g *graph.WeightedGraph) (*ClusteringResult, error) {
	nodeIDs := g.Nodes()
	coefficients := make(map[uint64]float64, len(nodeIDs))

	maxWeight := g.MaxWeight()
	if maxWeight <= 0 {
		// No positive weight anywhere; every coefficient is 0
		for _, nodeID := range nodeIDs {
			coefficients[nodeID] = 0
		}
		return &ClusteringResult{
			Coefficients: coefficients,
			TopNodes:     findTopNodes(coefficients, defaultTopN),
		}, nil
	}

	total := 0.0
	for _, v := range nodeIDs {
		neighbors := make([]uint64, 0, g.Degree(v))
		for _, u := range g.Neighbors(v) {
			if u != v {
				neighbors = append(neighbors, u)
			}
		}

		k := len(neighbors)
		if k < 2 {
			coefficients[v] = 0
			continue
		}

		// Sum geometric means over closed neighbor pairs; each unordered
		// pair stands for two ordered ones
		sum := 0.0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				a, b := neighbors[i], neighbors[j]
				if !g.HasEdge(a, b) {
					continue
				}
				product := (g.Weight(v, a) / maxWeight) *
					(g.Weight(v, b) / maxWeight) *
					(g.Weight(a, b) / maxWeight)
				sum += math.Cbrt(product)
			}
		}

		coefficients[v] = 2 * sum / float64(k*(k-1))
		total += coefficients[v]
	}

	average := 0.0
	if len(nodeIDs) > 0 {
		average = total / float64(len(nodeIDs))
	}

	return &ClusteringResult{
		Coefficients: coefficients,
		Average:      average,
		TopNodes:     findTopNodes(coefficients, defaultTopN),
	}, nil
}
