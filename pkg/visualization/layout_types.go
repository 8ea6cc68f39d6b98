// Package visualization renders community partitions of connectivity
// graphs. It is a cosmetic layer over the metric engine: layouts assign
// 2D positions, the render spec assigns colors and stroke widths, and
// the writers emit JSON, DOT, or SVG. Nothing here feeds back into any
// metric.
package visualization

import (
	"fmt"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// Position is one 2D coordinate on the canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Iteration count for iterative algorithms
	Padding    float64 // Padding from canvas edges
	Seed       int64   // Seed for randomized initial placement
}

// DefaultLayoutConfig returns an 800x600 canvas with the defaults the
// layouts themselves would apply.
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		Width:      800,
		Height:     600,
		Iterations: 100,
		Padding:    50,
	}
}

// Layout assigns a position to every node of the graph. Positions are
// deterministic for a given graph and config.
type Layout interface {
	ComputeLayout(g *graph.WeightedGraph) (map[uint64]Position, error)
}

// Layout algorithm names accepted by NewLayout.
const (
	LayoutForce    = "force"
	LayoutCircular = "circular"
	LayoutMDS      = "mds"
)

// NewLayout constructs the named layout algorithm.
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	if config == nil {
		config = DefaultLayoutConfig()
	}
	switch name {
	case LayoutForce:
		return NewForceDirectedLayout(config), nil
	case LayoutCircular:
		return NewCircularLayout(config), nil
	case LayoutMDS:
		return NewMDSLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
