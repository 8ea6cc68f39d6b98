package visualization

import (
	"encoding/json"
	"sort"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/graph"
)

// communityPalette colors nodes by community label. Labels beyond the
// palette wrap around.
var communityPalette = []string{
	"#4e79a7", // blue
	"#f28e2b", // orange
	"#59a14f", // green
	"#e15759", // red
	"#b07aa1", // purple
	"#76b7b2", // teal
	"#edc948", // yellow
	"#ff9da7", // pink
	"#9c755f", // brown
	"#bab0ac", // taupe
}

// isolatedColor marks nodes with no surviving edges.
const isolatedColor = "#cccccc"

// Edge stroke widths by weight quartile, weakest to strongest.
var strokeWidths = [4]float64{0.5, 1.0, 2.0, 3.5}

// NodeSpec carries everything a drawing backend needs for one node.
type NodeSpec struct {
	ID        uint64  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	Community int     `json:"community"`
	Isolated  bool    `json:"isolated,omitempty"`
}

// EdgeSpec carries one edge's stroke rendering. Intensity is the edge's
// weight percentile in [0,1]; heavier edges draw darker and wider.
type EdgeSpec struct {
	Source    uint64  `json:"source"`
	Target    uint64  `json:"target"`
	Weight    float64 `json:"weight"`
	Width     float64 `json:"width"`
	Intensity float64 `json:"intensity"`
}

// RenderSpec is a complete set of rendering instructions for one
// animal's partitioned graph. It is plain data: backends (JSON, DOT,
// SVG) only format it.
type RenderSpec struct {
	Animal string     `json:"animal,omitempty"`
	Nodes  []NodeSpec `json:"nodes"`
	Edges  []EdgeSpec `json:"edges"`
}

// BuildRenderSpec turns a graph, its community partition, and a layout
// into rendering instructions. Node fill comes from the community
// palette, with isolated nodes grayed out; edge width and intensity are
// bucketed by weight percentile. A nil partition renders every node in
// the first palette color.
func BuildRenderSpec(g *graph.WeightedGraph, partition *algorithms.PartitionResult, layout Layout) (*RenderSpec, error) {
	positions, err := layout.ComputeLayout(g)
	if err != nil {
		return nil, err
	}

	spec := &RenderSpec{
		Nodes: make([]NodeSpec, 0, g.NodeCount()),
		Edges: make([]EdgeSpec, 0, g.EdgeCount()),
	}

	for _, id := range g.Nodes() {
		node := NodeSpec{ID: id, X: positions[id].X, Y: positions[id].Y}
		if partition != nil {
			node.Community = partition.NodeCommunity[id]
		}
		if g.Degree(id) == 0 {
			node.Isolated = true
			node.Color = isolatedColor
		} else {
			node.Color = communityPalette[node.Community%len(communityPalette)]
		}
		spec.Nodes = append(spec.Nodes, node)
	}

	edges := g.Edges()
	weights := make([]float64, len(edges))
	for i, e := range edges {
		weights[i] = e.Weight
	}
	sort.Float64s(weights)

	for _, e := range edges {
		p := percentile(weights, e.Weight)
		spec.Edges = append(spec.Edges, EdgeSpec{
			Source:    e.Source,
			Target:    e.Target,
			Weight:    e.Weight,
			Width:     strokeWidths[quartile(p)],
			Intensity: p,
		})
	}
	return spec, nil
}

// percentile is the fraction of weights at or below w.
func percentile(sorted []float64, w float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	at := sort.SearchFloat64s(sorted, w)
	for at < len(sorted) && sorted[at] == w {
		at++
	}
	return float64(at) / float64(len(sorted))
}

// quartile buckets a percentile into 0..3.
func quartile(p float64) int {
	switch {
	case p <= 0.25:
		return 0
	case p <= 0.5:
		return 1
	case p <= 0.75:
		return 2
	default:
		return 3
	}
}

// ExportJSON serializes the render spec for external plotting tools.
func (s *RenderSpec) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
