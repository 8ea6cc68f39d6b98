package algorithms

import "github.com/connectolab/graphmetrics/pkg/graph"

// EfficiencyResult contains path-based efficiency scores
type EfficiencyResult struct {
	Global         float64
	Local          float64            // Mean over component nodes with degree >= 2
	LocalPerNode   map[uint64]float64 // Node ID -> local efficiency (degree >= 2 only)
	ComponentNodes []uint64           // Largest component actually scored
	DroppedEdges   int                // Edges with weight outside [0,1] removed first
}

// GlobalLocalEfficiency computes global and local efficiency over the
// undirected graph with edge distance 1 - weight. Edges with weight
// outside [0,1] are silently dropped for this metric only. A
// disconnected graph is reduced to its largest connected component
// before scoring, ties keeping the first-discovered component, and the
// scores describe that component alone. A graph with no surviving edges
// scores 0 on both measures.
func GlobalLocalEfficiency(g *graph.WeightedGraph) (*EfficiencyResult, error) {
	// Keep only unit-interval weights
	filtered := graph.NewWeightedGraph(false)
	dropped := 0
	for _, e := range g.Edges() {
		if e.Weight < 0 || e.Weight > 1 {
			dropped++
			continue
		}
		filtered.SetEdge(e.Source, e.Target, e.Weight)
	}

	result := &EfficiencyResult{
		LocalPerNode:   make(map[uint64]float64),
		ComponentNodes: []uint64{},
		DroppedEdges:   dropped,
	}
	if filtered.EdgeCount() == 0 {
		return result, nil
	}

	largest, err := LargestComponent(filtered)
	if err != nil {
		return nil, err
	}
	component := filtered.Induced(largest.Nodes)
	result.ComponentNodes = component.Nodes()

	result.Global = globalEfficiency(component)

	// Local efficiency: each qualifying node is scored by the global
	// efficiency of its open neighborhood; nodes with fewer than two
	// neighbors are excluded from the mean, not scored 0
	sum := 0.0
	count := 0
	for _, v := range result.ComponentNodes {
		neighbors := make([]uint64, 0, component.Degree(v))
		for _, u := range component.Neighbors(v) {
			if u != v {
				neighbors = append(neighbors, u)
			}
		}
		if len(neighbors) < 2 {
			continue
		}

		eff := globalEfficiency(component.Induced(neighbors))
		result.LocalPerNode[v] = eff
		sum += eff
		count++
	}
	if count > 0 {
		result.Local = sum / float64(count)
	}

	return result, nil
}

// globalEfficiency averages inverse shortest-path distances over all
// ordered node pairs. Unreachable pairs contribute 0, as do pairs whose
// distance collapses to 0 through weight-1 edges.
func globalEfficiency(g *graph.WeightedGraph) float64 {
	nodes := g.Nodes()
	n := len(nodes)
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, source := range nodes {
		distances := DijkstraDistances(g, source)
		for _, target := range nodes {
			if target == source {
				continue
			}
			if d, ok := distances[target]; ok && d > 0 {
				sum += 1.0 / d
			}
		}
	}
	return sum / float64(n*(n-1))
}

// DijkstraDistances computes shortest-path distances from source with
// edge distance 1 - weight. Only reached nodes appear in the result.
func DijkstraDistances(g *graph.WeightedGraph, source uint64) map[uint64]float64 {
	// Priority queue using simple slice (for simplicity, not optimal)
	type pqItem struct {
		nodeID   uint64
		distance float64
	}

	distances := map[uint64]float64{source: 0}
	visited := make(map[uint64]bool)
	pq := []pqItem{{source, 0}}

	for len(pq) > 0 {
		// Extract min (simple linear search)
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].distance < pq[minIdx].distance {
				minIdx = i
			}
		}
		current := pq[minIdx]
		pq = append(pq[:minIdx], pq[minIdx+1:]...)

		if visited[current.nodeID] {
			continue
		}
		visited[current.nodeID] = true

		for _, neighbor := range g.Neighbors(current.nodeID) {
			if neighbor == current.nodeID {
				continue
			}
			newDist := current.distance + (1.0 - g.Weight(current.nodeID, neighbor))
			if old, ok := distances[neighbor]; !ok || newDist < old {
				distances[neighbor] = newDist
				pq = append(pq, pqItem{neighbor, newDist})
			}
		}
	}

	return distances
}
