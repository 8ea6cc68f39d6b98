package visualization

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/graph"
)

// MDSLayout embeds nodes by classical multidimensional scaling of the
// shortest-path distance matrix, so canvas distance approximates
// connectivity distance. Edge distance is 1 - weight, matching the
// efficiency metric; edges with weight outside [0,1] are ignored here.
type MDSLayout struct {
	config *LayoutConfig
}

// NewMDSLayout creates a new MDS layout
func NewMDSLayout(config *LayoutConfig) *MDSLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &MDSLayout{config: config}
}

// ComputeLayout runs Torgerson scaling on the pairwise distance matrix
// and keeps the first two embedding dimensions. Degenerate embeddings
// fall back to the circular layout.
func (ml *MDSLayout) ComputeLayout(g *graph.WeightedGraph) (map[uint64]Position, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return make(map[uint64]Position), nil
	}
	if len(nodes) == 1 {
		return centeredPosition(nodes[0], ml.config), nil
	}

	dist := distanceMatrix(g, nodes)

	var coords mat.Dense
	k, _ := mds.TorgersonScaling(&coords, nil, dist)
	if k < 1 {
		// All pairwise distances collapsed; positions carry no signal
		return NewCircularLayout(ml.config).ComputeLayout(g)
	}

	positions := make(map[uint64]Position, len(nodes))
	for i, id := range nodes {
		pos := Position{X: coords.At(i, 0)}
		if k > 1 {
			pos.Y = coords.At(i, 1)
		}
		positions[id] = pos
	}
	return normalizePositions(positions, ml.config.Width, ml.config.Height, ml.config.Padding), nil
}

// distanceMatrix builds the symmetric shortest-path distance matrix.
// Unreachable pairs get n as a stand-in beyond any real path length.
func distanceMatrix(g *graph.WeightedGraph, nodes []uint64) *mat.SymDense {
	filtered := graph.NewWeightedGraph(false)
	for _, id := range nodes {
		filtered.AddNode(id)
	}
	for _, e := range g.Edges() {
		if e.Weight < 0 || e.Weight > 1 {
			continue
		}
		filtered.SetEdge(e.Source, e.Target, e.Weight)
	}

	n := len(nodes)
	dist := mat.NewSymDense(n, nil)
	for i, source := range nodes {
		distances := algorithms.DijkstraDistances(filtered, source)
		for j := i + 1; j < n; j++ {
			d, ok := distances[nodes[j]]
			if !ok {
				d = float64(n)
			}
			dist.SetSym(i, j, d)
		}
	}
	return dist
}
