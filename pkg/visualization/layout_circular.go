package visualization

import (
	"math"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// CircularLayout places nodes evenly on a circle in ascending neuron ID
// order. Useful when edge structure should be read off the chords
// rather than the positions.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes on a circle centered on the canvas.
func (cl *CircularLayout) ComputeLayout(g *graph.WeightedGraph) (map[uint64]Position, error) {
	nodes := g.Nodes()
	positions := make(map[uint64]Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	step := 2 * math.Pi / float64(len(nodes))
	for i, id := range nodes {
		angle := float64(i) * step
		positions[id] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions, nil
}
