package algorithms

import (
	"container/heap"
	"math"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// PageRankOptions configures the PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 // Usually 0.85
	MaxIterations int
	Tolerance     float64 // Convergence threshold on the L1 delta
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all nodes
type PageRankResult struct {
	Scores     map[uint64]float64 // Node ID -> PageRank score
	Iterations int                // Number of iterations performed
	Converged  bool               // Whether the iteration reached tolerance
	TopNodes   []RankedNode       // Top N nodes by score
}

// RankedNode represents a node with its score
type RankedNode struct {
	NodeID uint64
	Score  float64
}

// defaultTopN is how many ranked nodes result structs carry.
const defaultTopN = 10

// PageRank computes damped, weight-proportional PageRank over a directed
// graph. Each node's score flows to its out-neighbors in proportion to
// edge weight; mass sitting on nodes without outgoing weight is spread
// uniformly so scores keep summing to 1. Reaching the iteration cap is
// not an error: the final iterate is returned with Converged=false.
func PageRank(g *graph.WeightedGraph, opts PageRankOptions) (*PageRankResult, error) {
	nodeIDs := g.Nodes()
	n := len(nodeIDs)
	if n == 0 {
		return &PageRankResult{
			Scores:    make(map[uint64]float64),
			Converged: true,
		}, nil
	}

	// Initialize scores (uniform distribution)
	scores := make(map[uint64]float64, n)
	initialScore := 1.0 / float64(n)
	for _, nodeID := range nodeIDs {
		scores[nodeID] = initialScore
	}

	// Total outgoing weight per node
	outWeight := make(map[uint64]float64, n)
	for _, nodeID := range nodeIDs {
		outWeight[nodeID] = g.OutWeight(nodeID)
	}

	newScores := make(map[uint64]float64, n)
	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		// Mass on dangling nodes (no outgoing weight) is redistributed
		// uniformly
		danglingSum := 0.0
		for _, nodeID := range nodeIDs {
			if outWeight[nodeID] <= 0 {
				danglingSum += scores[nodeID]
			}
		}

		base := (1.0-opts.DampingFactor)/float64(n) +
			opts.DampingFactor*danglingSum/float64(n)
		for _, nodeID := range nodeIDs {
			newScores[nodeID] = base
		}

		// Push each node's score to its out-neighbors proportionally to
		// edge weight
		for _, from := range nodeIDs {
			total := outWeight[from]
			if total <= 0 {
				continue
			}
			contribution := opts.DampingFactor * scores[from] / total
			for _, to := range g.Neighbors(from) {
				newScores[to] += contribution * g.Weight(from, to)
			}
		}

		// Check for convergence on the L1 delta
		delta := 0.0
		for _, nodeID := range nodeIDs {
			delta += math.Abs(newScores[nodeID] - scores[nodeID])
		}

		scores, newScores = newScores, scores

		if delta < opts.Tolerance {
			converged = true
			break
		}
	}

	// Normalize scores to sum to 1
	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	if sum > 0 {
		for nodeID := range scores {
			scores[nodeID] /= sum
		}
	}

	return &PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
		TopNodes:   findTopNodes(scores, defaultTopN),
	}, nil
}

// rankedNodeHeap is a min-heap on score; the root is the weakest of
// the current top N and gets evicted first.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score // Min-heap
	}
	return h[i].NodeID > h[j].NodeID // Equal scores: higher ID evicted first
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// findTopNodes finds the top N nodes by score using a min-heap. Score
// ties break toward lower node IDs so rankings are reproducible.
func findTopNodes(scores map[uint64]float64, n int) []RankedNode {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for nodeID, score := range scores {
		rn := RankedNode{NodeID: nodeID, Score: score}

		if h.Len() < n {
			heap.Push(&h, rn)
		} else if score > h[0].Score || (score == h[0].Score && nodeID < h[0].NodeID) {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	// Extract elements from heap (will be in ascending order)
	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	return result
}

// GetTopNodesByPageRank returns top N nodes by PageRank score
func (pr *PageRankResult) GetTopNodesByPageRank(n int) []RankedNode {
	if n > len(pr.TopNodes) {
		return pr.TopNodes
	}
	return pr.TopNodes[:n]
}

// GetNodeRank returns the PageRank score for a specific node
func (pr *PageRankResult) GetNodeRank(nodeID uint64) float64 {
	return pr.Scores[nodeID]
}
