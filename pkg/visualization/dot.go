package visualization

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT renders the spec as an undirected Graphviz graph. Positions
// are pinned, so neato reproduces the computed layout exactly.
func (s *RenderSpec) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("graph connectome {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fixedsize=true, width=0.4];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %d [pos=\"%.1f,%.1f!\", fillcolor=%q];\n", n.ID, n.X, n.Y, n.Color)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %d -- %d [penwidth=%.2f, color=%q];\n",
			e.Source, e.Target, e.Width, strokeColor(e.Intensity))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// strokeColor maps intensity onto the graphviz gray ramp: the heaviest
// edges draw near black, the lightest fade toward the background.
func strokeColor(intensity float64) string {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return fmt.Sprintf("gray%d", int((1-intensity)*60))
}

// RenderSVG renders the spec to SVG in process.
func RenderSVG(ctx context.Context, spec *RenderSpec) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(spec.ToDOT()))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render SVG: %w", err)
	}
	return buf.Bytes(), nil
}
