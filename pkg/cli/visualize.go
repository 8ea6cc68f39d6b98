package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/graph"
	"github.com/connectolab/graphmetrics/pkg/logging"
	"github.com/connectolab/graphmetrics/pkg/records"
	"github.com/connectolab/graphmetrics/pkg/tabular"
	"github.com/connectolab/graphmetrics/pkg/visualization"
)

// visualizeOpts holds the visualize command flags.
type visualizeOpts struct {
	input      string
	animal     string
	layout     string
	format     string
	output     string
	width      float64
	height     float64
	iterations int
	seed       int64
}

func newVisualizeCmd() *cobra.Command {
	opts := visualizeOpts{
		layout: visualization.LayoutForce,
		format: "svg",
		width:  800,
		height: 600,
	}

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render one animal's community partition",
		Long:  "Visualize builds the undirected graph for one animal, partitions it into communities, and renders the result as SVG, DOT, or layout JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" {
				return fmt.Errorf("--input is required")
			}
			return runVisualize(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "edge table path")
	cmd.Flags().StringVarP(&opts.animal, "animal", "a", "", "animal to render (defaults to the only animal)")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", opts.layout, "layout: force, circular, mds")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults to <animal>.<format>)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "layout iterations (0 = default)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "layout seed (0 = default)")

	return cmd
}

func runVisualize(ctx context.Context, opts *visualizeOpts) error {
	log := loggerFromContext(ctx).With(logging.Component("visualize"))

	group, err := loadAnimalGroup(opts.input, opts.animal)
	if err != nil {
		return err
	}

	g := graph.BuildOne(group.Records, false)
	partition, err := algorithms.CommunityPartition(g, algorithms.DefaultCommunityOptions())
	if err != nil {
		return fmt.Errorf("community partition failed: %w", err)
	}
	log.Info("partitioned graph",
		logging.Animal(group.Animal),
		logging.Int("nodes", g.NodeCount()),
		logging.Int("communities", len(partition.Communities)))

	layout, err := visualization.NewLayout(opts.layout, &visualization.LayoutConfig{
		Width:      opts.width,
		Height:     opts.height,
		Iterations: opts.iterations,
		Seed:       opts.seed,
	})
	if err != nil {
		return err
	}

	spec, err := visualization.BuildRenderSpec(g, partition, layout)
	if err != nil {
		return err
	}
	spec.Animal = group.Animal

	data, err := encodeRenderSpec(ctx, spec, opts.format)
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = fmt.Sprintf("%s.%s", sanitizeFileName(group.Animal), opts.format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	printSuccess("rendered %s (%d neurons, %d communities)",
		group.Animal, g.NodeCount(), len(partition.Communities))
	printFile(path)
	return nil
}

// loadAnimalGroup reads the edge table and picks one animal's records.
// With no animal named, the table must contain exactly one.
func loadAnimalGroup(input, animal string) (*graph.RecordGroup, error) {
	rows, err := tabular.ReadEdgeTable(input, tabular.DefaultReadOptions())
	if err != nil {
		return nil, err
	}
	recs, err := records.ParseRows(rows)
	if err != nil {
		return nil, err
	}

	groups := graph.GroupByAnimal(recs)
	if len(groups) == 0 {
		return nil, fmt.Errorf("edge table %s has no rows", input)
	}

	if animal == "" {
		if len(groups) > 1 {
			return nil, fmt.Errorf("table has %d animals (%s); pick one with --animal",
				len(groups), strings.Join(groupNames(groups), ", "))
		}
		return &groups[0], nil
	}

	for i := range groups {
		if groups[i].Animal == animal {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("animal %q not in table (have: %s)", animal, strings.Join(groupNames(groups), ", "))
}

func groupNames(groups []graph.RecordGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Animal
	}
	return names
}

func encodeRenderSpec(ctx context.Context, spec *visualization.RenderSpec, format string) ([]byte, error) {
	switch format {
	case "json":
		return spec.ExportJSON()
	case "dot":
		return []byte(spec.ToDOT()), nil
	case "svg":
		return visualization.RenderSVG(ctx, spec)
	default:
		return nil, fmt.Errorf("unsupported visualization format %q", format)
	}
}

// sanitizeFileName keeps animal names path-safe.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}
