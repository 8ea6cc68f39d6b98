package visualization

import (
	"strings"
	"testing"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/graph"
)

// TestBuildRenderSpec tests palette assignment and isolated-node color
func TestBuildRenderSpec(t *testing.T) {
	g := graph.NewWeightedGraph(false)
	g.SetEdge(1, 2, 0.9)
	g.SetEdge(2, 3, 0.9)
	g.SetEdge(3, 1, 0.9)
	g.AddNode(4)

	partition := &algorithms.PartitionResult{
		NodeCommunity: map[uint64]int{1: 0, 2: 0, 3: 0, 4: 1},
	}

	spec, err := BuildRenderSpec(g, partition, NewCircularLayout(&LayoutConfig{Width: 400, Height: 400}))
	if err != nil {
		t.Fatalf("BuildRenderSpec failed: %v", err)
	}

	if len(spec.Nodes) != 4 {
		t.Fatalf("Expected 4 node specs, got %d", len(spec.Nodes))
	}
	if len(spec.Edges) != 3 {
		t.Fatalf("Expected 3 edge specs, got %d", len(spec.Edges))
	}

	// Nodes come out in ascending ID order
	for i, n := range spec.Nodes {
		if n.ID != uint64(i+1) {
			t.Errorf("Node %d out of order: got ID %d", i, n.ID)
		}
	}

	for _, n := range spec.Nodes[:3] {
		if n.Color != communityPalette[0] {
			t.Errorf("Node %d: expected community color %s, got %s", n.ID, communityPalette[0], n.Color)
		}
		if n.Isolated {
			t.Errorf("Node %d wrongly marked isolated", n.ID)
		}
	}

	lone := spec.Nodes[3]
	if !lone.Isolated || lone.Color != isolatedColor {
		t.Errorf("Isolated node 4: got isolated=%v color=%s", lone.Isolated, lone.Color)
	}

	// Equal weights all land in the top bucket
	for _, e := range spec.Edges {
		if e.Intensity != 1.0 {
			t.Errorf("Edge %d-%d: expected intensity 1.0, got %f", e.Source, e.Target, e.Intensity)
		}
		if e.Width != strokeWidths[3] {
			t.Errorf("Edge %d-%d: expected width %f, got %f", e.Source, e.Target, strokeWidths[3], e.Width)
		}
	}
}

// TestBuildRenderSpec_WeightBuckets tests the percentile stroke buckets
func TestBuildRenderSpec_WeightBuckets(t *testing.T) {
	g := graph.NewWeightedGraph(false)
	g.SetEdge(1, 2, 0.1)
	g.SetEdge(1, 3, 0.2)
	g.SetEdge(1, 4, 0.3)
	g.SetEdge(1, 5, 0.4)

	spec, err := BuildRenderSpec(g, nil, NewCircularLayout(&LayoutConfig{Width: 400, Height: 400}))
	if err != nil {
		t.Fatalf("BuildRenderSpec failed: %v", err)
	}
	if len(spec.Edges) != 4 {
		t.Fatalf("Expected 4 edge specs, got %d", len(spec.Edges))
	}

	// Edges sort by endpoint, so weights ascend with position
	wantIntensity := []float64{0.25, 0.5, 0.75, 1.0}
	for i, e := range spec.Edges {
		if e.Intensity != wantIntensity[i] {
			t.Errorf("Edge %d-%d: expected intensity %f, got %f", e.Source, e.Target, wantIntensity[i], e.Intensity)
		}
		if e.Width != strokeWidths[i] {
			t.Errorf("Edge %d-%d: expected width %f, got %f", e.Source, e.Target, strokeWidths[i], e.Width)
		}
	}
}

// TestBuildRenderSpec_NilPartition tests the single-color fallback
func TestBuildRenderSpec_NilPartition(t *testing.T) {
	g := graph.NewWeightedGraph(false)
	g.SetEdge(1, 2, 0.5)

	spec, err := BuildRenderSpec(g, nil, NewCircularLayout(&LayoutConfig{Width: 200, Height: 200}))
	if err != nil {
		t.Fatalf("BuildRenderSpec failed: %v", err)
	}

	for _, n := range spec.Nodes {
		if n.Community != 0 || n.Color != communityPalette[0] {
			t.Errorf("Node %d: expected default community color, got community=%d color=%s", n.ID, n.Community, n.Color)
		}
	}
}

// TestBuildRenderSpec_PaletteWrap tests label wrap-around on the palette
func TestBuildRenderSpec_PaletteWrap(t *testing.T) {
	g := graph.NewWeightedGraph(false)
	g.SetEdge(1, 2, 0.5)

	wrapped := len(communityPalette) + 2
	partition := &algorithms.PartitionResult{
		NodeCommunity: map[uint64]int{1: wrapped, 2: wrapped},
	}

	spec, err := BuildRenderSpec(g, partition, NewCircularLayout(&LayoutConfig{Width: 200, Height: 200}))
	if err != nil {
		t.Fatalf("BuildRenderSpec failed: %v", err)
	}

	want := communityPalette[wrapped%len(communityPalette)]
	for _, n := range spec.Nodes {
		if n.Color != want {
			t.Errorf("Node %d: expected wrapped color %s, got %s", n.ID, want, n.Color)
		}
	}
}

// TestRenderSpec_ExportJSON tests the JSON export shape
func TestRenderSpec_ExportJSON(t *testing.T) {
	g := graph.NewWeightedGraph(false)
	g.SetEdge(1, 2, 0.7)

	spec, err := BuildRenderSpec(g, nil, NewCircularLayout(&LayoutConfig{Width: 200, Height: 200}))
	if err != nil {
		t.Fatalf("BuildRenderSpec failed: %v", err)
	}
	spec.Animal = "wt-01"

	data, err := spec.ExportJSON()
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}

	text := string(data)
	for _, want := range []string{`"animal": "wt-01"`, `"nodes"`, `"edges"`, communityPalette[0]} {
		if !strings.Contains(text, want) {
			t.Errorf("JSON export missing %s", want)
		}
	}
}
