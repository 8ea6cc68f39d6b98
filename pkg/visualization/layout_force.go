package visualization

import (
	"math"
	"math/rand"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// defaultSeed keeps unseeded layouts reproducible across runs.
const defaultSeed = 42

// ForceDirectedLayout is a Fruchterman-Reingold style layout. All nodes
// repel each other; connected nodes attract in proportion to their
// connection strength, so strongly coupled neurons settle close
// together.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 100
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions by iterating repulsion, attraction,
// and a cooling displacement cap. Initial placement comes from a seeded
// generator and nodes are walked in ascending ID order, so the result
// is reproducible.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.WeightedGraph) (map[uint64]Position, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return make(map[uint64]Position), nil
	}
	if len(nodes) == 1 {
		return centeredPosition(nodes[0], fdl.config), nil
	}

	seed := fdl.config.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	positions := make(map[uint64]Position, len(nodes))
	for _, id := range nodes {
		positions[id] = Position{
			X: fdl.config.Padding + rng.Float64()*(fdl.config.Width-2*fdl.config.Padding),
			Y: fdl.config.Padding + rng.Float64()*(fdl.config.Height-2*fdl.config.Padding),
		}
	}

	maxWeight := g.MaxWeight()
	if maxWeight <= 0 {
		maxWeight = 1
	}

	// Optimal pairwise distance for the canvas area
	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodes)))
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[uint64]Position, len(nodes))

		// Repulsion between every pair
		for i, u := range nodes {
			for _, v := range nodes[i+1:] {
				dx := positions[u].X - positions[v].X
				dy := positions[u].Y - positions[v].Y
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					dist = 0.01
				}

				push := (k * k) / dist
				fx := (dx / dist) * push
				fy := (dy / dist) * push
				forces[u] = Position{X: forces[u].X + fx, Y: forces[u].Y + fy}
				forces[v] = Position{X: forces[v].X - fx, Y: forces[v].Y - fy}
			}
		}

		// Attraction along edges, scaled by relative edge weight
		for _, u := range nodes {
			for _, v := range g.Neighbors(u) {
				if u == v {
					continue
				}
				dx := positions[u].X - positions[v].X
				dy := positions[u].Y - positions[v].Y
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					continue
				}

				pull := (dist * dist) / k * (g.Weight(u, v) / maxWeight)
				forces[u] = Position{
					X: forces[u].X - (dx/dist)*pull,
					Y: forces[u].Y - (dy/dist)*pull,
				}
			}
		}

		// Displace, capped by the cooling temperature
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, id := range nodes {
			fx := forces[id].X
			fy := forces[id].Y
			magnitude := math.Hypot(fx, fy)
			if magnitude == 0 {
				continue
			}

			step := math.Min(magnitude, temperature) * cool
			positions[id] = Position{
				X: positions[id].X + (fx/magnitude)*step,
				Y: positions[id].Y + (fy/magnitude)*step,
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
