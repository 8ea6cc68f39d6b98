package algorithms

import (
	"math"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// HITSOptions configures the HITS algorithm
type HITSOptions struct {
	MaxIterations int
	Tolerance     float64 // Convergence threshold on the hub L1 delta
}

// DefaultHITSOptions returns default HITS configuration
func DefaultHITSOptions() HITSOptions {
	return HITSOptions{
		MaxIterations: 100,
		Tolerance:     1e-8,
	}
}

// HITSResult contains hub and authority scores for all nodes
type HITSResult struct {
	Hubs           map[uint64]float64
	Authorities    map[uint64]float64
	Iterations     int
	Converged      bool
	TopHubs        []RankedNode
	TopAuthorities []RankedNode
}

// HITS computes hub and authority scores by coupled power iteration over
// the directed adjacency. Edge weights define presence only, never
// magnitude. Both vectors are L1-normalized after each half-step, so each
// sums to 1. Reaching the iteration cap returns the final iterate with
// Converged=false, not an error.
func HITS(g *graph.WeightedGraph, opts HITSOptions) (*HITSResult, error) {
	nodeIDs := g.Nodes()
	n := len(nodeIDs)
	if n == 0 {
		return &HITSResult{
			Hubs:        make(map[uint64]float64),
			Authorities: make(map[uint64]float64),
			Converged:   true,
		}, nil
	}

	hubs := make(map[uint64]float64, n)
	authorities := make(map[uint64]float64, n)
	initial := 1.0 / float64(n)
	for _, nodeID := range nodeIDs {
		hubs[nodeID] = initial
		authorities[nodeID] = 0
	}

	newHubs := make(map[uint64]float64, n)
	newAuthorities := make(map[uint64]float64, n)
	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		// Authority half-step: a(v) = sum of hub scores pointing at v
		for _, nodeID := range nodeIDs {
			newAuthorities[nodeID] = 0
		}
		for _, from := range nodeIDs {
			h := hubs[from]
			if h == 0 {
				continue
			}
			for _, to := range g.Neighbors(from) {
				newAuthorities[to] += h
			}
		}
		if !normalizeL1(newAuthorities) {
			// No edges carry any mass; all scores stay zero
			for _, nodeID := range nodeIDs {
				hubs[nodeID] = 0
			}
			converged = true
			break
		}

		// Hub half-step: h(u) = sum of authority scores u points at
		for _, nodeID := range nodeIDs {
			total := 0.0
			for _, to := range g.Neighbors(nodeID) {
				total += newAuthorities[to]
			}
			newHubs[nodeID] = total
		}
		normalizeL1(newHubs)

		delta := 0.0
		for _, nodeID := range nodeIDs {
			delta += math.Abs(newHubs[nodeID] - hubs[nodeID])
		}

		hubs, newHubs = newHubs, hubs
		authorities, newAuthorities = newAuthorities, authorities

		if delta < opts.Tolerance {
			converged = true
			break
		}
	}

	return &HITSResult{
		Hubs:           hubs,
		Authorities:    authorities,
		Iterations:     iterations,
		Converged:      converged,
		TopHubs:        findTopNodes(hubs, defaultTopN),
		TopAuthorities: findTopNodes(authorities, defaultTopN),
	}, nil
}

// normalizeL1 scales scores to unit L1 norm in place. Returns false when
// the norm is zero and nothing was scaled.
func normalizeL1(scores map[uint64]float64) bool {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if sum == 0 {
		return false
	}
	for nodeID := range scores {
		scores[nodeID] /= sum
	}
	return true
}
