package algorithms

import (
	"errors"
	"fmt"
	"math"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// EigenvectorOptions configures eigenvector centrality
type EigenvectorOptions struct {
	MaxIterations int
	Tolerance     float64 // Convergence threshold on the L1 delta
}

// DefaultEigenvectorOptions returns default eigenvector centrality
// configuration
func DefaultEigenvectorOptions() EigenvectorOptions {
	return EigenvectorOptions{
		MaxIterations: 1000,
		Tolerance:     1e-6,
	}
}

// ConvergenceError reports a power iteration that exhausted its cap
// without reaching tolerance. Eigenvector centrality has no damping term
// guaranteeing contraction, so unlike PageRank and HITS its
// non-convergence is surfaced to the caller rather than papered over
// with the final iterate.
type ConvergenceError struct {
	Algorithm  string
	Iterations int
	Tolerance  float64
	Delta      float64 // L1 delta at the final iteration
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations (delta %.3g, tolerance %.3g)",
		e.Algorithm, e.Iterations, e.Delta, e.Tolerance)
}

// IsConvergenceError returns true if the error is a convergence failure.
func IsConvergenceError(err error) bool {
	var ce *ConvergenceError
	return errors.As(err, &ce)
}

// EigenvectorResult contains eigenvector centrality scores for all nodes
type EigenvectorResult struct {
	Scores     map[uint64]float64
	Iterations int
	Converged  bool
	TopNodes   []RankedNode
}

// EigenvectorCentrality computes centrality as the dominant eigenvector
// of the weighted undirected adjacency: x is iterated as x <- A·x and
// L2-renormalized each step until the L1 delta drops below tolerance.
// Exhausting the cap fails with *ConvergenceError; bipartite structures
// can oscillate forever under this iteration and legitimately land
// there. An all-zero iterate (edge-free graph) returns zero scores.
func EigenvectorCentrality(g *graph.WeightedGraph, opts EigenvectorOptions) (*EigenvectorResult, error) {
	nodeIDs := g.Nodes()
	n := len(nodeIDs)
	if n == 0 {
		return &EigenvectorResult{
			Scores:    make(map[uint64]float64),
			Converged: true,
		}, nil
	}

	scores := make(map[uint64]float64, n)
	initial := 1.0 / float64(n)
	for _, nodeID := range nodeIDs {
		scores[nodeID] = initial
	}

	newScores := make(map[uint64]float64, n)
	delta := 0.0
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		// x <- A·x over the weighted adjacency
		for _, nodeID := range nodeIDs {
			total := 0.0
			for _, neighbor := range g.Neighbors(nodeID) {
				total += g.Weight(nodeID, neighbor) * scores[neighbor]
			}
			newScores[nodeID] = total
		}

		// Renormalize to unit L2 norm
		norm := 0.0
		for _, s := range newScores {
			norm += s * s
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// No weight reaches any node; centrality is defined as zero
			for _, nodeID := range nodeIDs {
				scores[nodeID] = 0
			}
			return &EigenvectorResult{
				Scores:     scores,
				Iterations: iterations,
				Converged:  true,
				TopNodes:   findTopNodes(scores, defaultTopN),
			}, nil
		}
		for nodeID := range newScores {
			newScores[nodeID] /= norm
		}

		delta = 0.0
		for _, nodeID := range nodeIDs {
			delta += math.Abs(newScores[nodeID] - scores[nodeID])
		}

		scores, newScores = newScores, scores

		if delta < opts.Tolerance {
			return &EigenvectorResult{
				Scores:     scores,
				Iterations: iterations,
				Converged:  true,
				TopNodes:   findTopNodes(scores, defaultTopN),
			}, nil
		}
	}

	return nil, &ConvergenceError{
		Algorithm:  "eigenvector centrality",
		Iterations: iterations,
		Tolerance:  opts.Tolerance,
		Delta:      delta,
	}
}
