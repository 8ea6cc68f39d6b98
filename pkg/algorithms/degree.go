package algorithms

import "github.com/connectolab/graphmetrics/pkg/graph"

// DegreeResult contains weighted degree centrality scores
type DegreeResult struct {
	Raw        map[uint64]float64 // Node ID -> sum of incident edge weights
	Normalized map[uint64]float64 // Raw / N (total node count)
	TopNodes   []RankedNode       // Top N nodes by raw weighted degree
}

// WeightedDegreeCentrality sums each node's incident edge weights over
// the undirected graph. The normalized score divides by the total node
// count N, literally N and not N-1. A single-node graph normalizes to 0.
func WeightedDegreeCentrality(g *graph.WeightedGraph) (*DegreeResult, error) {
	nodeIDs := g.Nodes()
	n := len(nodeIDs)

	raw := make(map[uint64]float64, n)
	normalized := make(map[uint64]float64, n)

	for _, nodeID := range nodeIDs {
		degree := g.WeightedDegree(nodeID)
		raw[nodeID] = degree
		if n <= 1 {
			normalized[nodeID] = 0
		} else {
			normalized[nodeID] = degree / float64(n)
		}
	}

	return &DegreeResult{
		Raw:        raw,
		Normalized: normalized,
		TopNodes:   findTopNodes(raw, defaultTopN),
	}, nil
}
