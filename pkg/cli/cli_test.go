package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectolab/graphmetrics/pkg/results"
	"github.com/connectolab/graphmetrics/pkg/tabular"
	"github.com/connectolab/graphmetrics/pkg/visualization"
)

const testEdgeTable = "Animal,Neuron Pair,Mean Edge Weight\n" +
	"wt-01,\"(1, 2)\",0.9\n" +
	"wt-01,\"(2, 3)\",0.9\n" +
	"wt-01,\"(3, 1)\",0.9\n" +
	"wt-02,\"(1, 2)\",0.5\n"

func writeTestEdgeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, []byte(testEdgeTable), 0o644))
	return path
}

func TestResolveAnalysisConfig_Defaults(t *testing.T) {
	cfg, err := resolveAnalysisConfig(&analyzeOpts{input: "edges.csv"})
	require.NoError(t, err)

	assert.Equal(t, "edges.csv", cfg.Input.Path)
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, results.AllMetrics(), cfg.Metrics)
	assert.Equal(t, 1, cfg.GetWorkers())
}

func TestResolveAnalysisConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "analysis.yaml")
	configYAML := "input:\n" +
		"  path: from-file.csv\n" +
		"output:\n" +
		"  dir: file-results\n" +
		"  format: json\n" +
		"metrics: [pagerank]\n" +
		"workers: 2\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	opts := &analyzeOpts{
		configPath: configPath,
		outputDir:  "flag-results",
		workers:    4,
		compress:   true,
	}
	cfg, err := resolveAnalysisConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, "from-file.csv", cfg.Input.Path, "file value survives when no flag is set")
	assert.Equal(t, "flag-results", cfg.Output.Dir, "flag wins over file")
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []string{results.MetricPageRank}, cfg.Metrics)
	assert.Equal(t, 4, cfg.GetWorkers())
	assert.True(t, cfg.Output.Compress)
}

func TestResolveAnalysisConfig_Invalid(t *testing.T) {
	_, err := resolveAnalysisConfig(&analyzeOpts{input: "edges.csv", format: "xml"})
	require.Error(t, err)

	_, err = resolveAnalysisConfig(&analyzeOpts{})
	require.Error(t, err, "input path is required")
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "graphmetrics", root.Use)

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"analyze", "visualize", "browse", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionString(t *testing.T) {
	SetVersion("1.2.3", "abcdef0", "2026-01-02")
	defer SetVersion("dev", "none", "unknown")

	s := versionString()
	assert.Contains(t, s, "graphmetrics 1.2.3")
	assert.Contains(t, s, "commit: abcdef0")
	assert.Contains(t, s, "built: 2026-01-02")
}

func TestAnalyzeCommand_EndToEnd(t *testing.T) {
	input := writeTestEdgeTable(t)
	outDir := filepath.Join(t.TempDir(), "out")

	root := NewRootCommand()
	root.SetArgs([]string{"analyze", "-i", input, "-o", outDir, "-m", "degree"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	header, rows, err := tabular.ReadTableFile(filepath.Join(outDir, "degree.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		results.ColumnAnimal, results.ColumnNeuron,
		results.ColumnWeightedDegree, results.ColumnNormalizedDegree,
	}, header)
	assert.Len(t, rows, 5, "three wt-01 neurons plus two wt-02 neurons")
}

func TestAnalyzeCommand_MissingInput(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"analyze"})
	root.SetErr(nopWriter{})
	require.Error(t, root.ExecuteContext(context.Background()))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestDiscoverTables(t *testing.T) {
	dir := t.TempDir()

	plain := tabular.WriteOptions{Format: tabular.FormatCSV}
	compressed := tabular.WriteOptions{Format: tabular.FormatCSV, Compress: true}
	efficiencyTable := results.Table{
		Metric:  results.MetricEfficiency,
		Columns: []string{results.ColumnAnimal, results.ColumnGlobalEfficiency, results.ColumnLocalEfficiency},
		Rows:    [][]any{{"wt-01", 0.9, 0.8}},
	}
	pagerankTable := results.Table{
		Metric:  results.MetricPageRank,
		Columns: []string{results.ColumnAnimal, results.ColumnNeuron, results.ColumnPageRank},
		Rows:    [][]any{{"wt-01", uint64(1), 0.5}, {"wt-01", uint64(2), 0.5}},
	}

	require.NoError(t, tabular.WriteTableFile(
		filepath.Join(dir, tabular.TableFileName(results.MetricEfficiency, compressed)),
		efficiencyTable, compressed))
	require.NoError(t, tabular.WriteTableFile(
		filepath.Join(dir, tabular.TableFileName(results.MetricPageRank, plain)),
		pagerankTable, plain))

	// Non-CSV files and subdirectories are not tables
	require.NoError(t, os.WriteFile(filepath.Join(dir, "degree.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	tables, err := discoverTables(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, results.MetricPageRank, tables[0].Metric, "pipeline metric order, not lexical")
	assert.Equal(t, results.MetricEfficiency, tables[1].Metric)
	assert.Len(t, tables[0].Rows, 2)
	assert.Len(t, tables[1].Rows, 1)
	assert.Equal(t, []string{results.ColumnAnimal, results.ColumnNeuron, results.ColumnPageRank}, tables[0].Columns)
	assert.Positive(t, tables[0].Size)
}

func TestDiscoverTables_MissingDir(t *testing.T) {
	_, err := discoverTables(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestBuildRowTable(t *testing.T) {
	bt := browseTable{
		Metric:  results.MetricPageRank,
		Columns: []string{"Animal", "Neuron", "PageRank"},
		Rows: [][]string{
			{"wt-01", "1", "0.3333333333333333"},
			{"wt-01", "2", "0.3333333333333333"},
		},
	}

	tbl := buildRowTable(bt, 80)
	assert.Len(t, tbl.Rows(), 2)

	view := tbl.View()
	assert.Contains(t, view, "Animal")
	assert.Contains(t, view, "wt-01")
}

func TestLoadAnimalGroup(t *testing.T) {
	input := writeTestEdgeTable(t)

	group, err := loadAnimalGroup(input, "wt-02")
	require.NoError(t, err)
	assert.Equal(t, "wt-02", group.Animal)
	assert.Len(t, group.Records, 1)
}

func TestLoadAnimalGroup_AmbiguousWithoutFlag(t *testing.T) {
	input := writeTestEdgeTable(t)

	_, err := loadAnimalGroup(input, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--animal")
	assert.Contains(t, err.Error(), "wt-01")
	assert.Contains(t, err.Error(), "wt-02")
}

func TestLoadAnimalGroup_SingleAnimalImplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	single := "Neuron Pair,Mean Edge Weight\n\"(1, 2)\",0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(single), 0o644))

	group, err := loadAnimalGroup(path, "")
	require.NoError(t, err)
	assert.Len(t, group.Records, 1)
}

func TestLoadAnimalGroup_UnknownAnimal(t *testing.T) {
	input := writeTestEdgeTable(t)

	_, err := loadAnimalGroup(input, "ko-99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ko-99")
}

func TestEncodeRenderSpec(t *testing.T) {
	spec := &visualization.RenderSpec{
		Animal: "wt-01",
		Nodes: []visualization.NodeSpec{
			{ID: 1, X: 10, Y: 20, Color: "#4e79a7"},
			{ID: 2, X: 30, Y: 40, Color: "#4e79a7"},
		},
		Edges: []visualization.EdgeSpec{
			{Source: 1, Target: 2, Weight: 0.5, Width: 1.0, Intensity: 1.0},
		},
	}
	ctx := context.Background()

	jsonData, err := encodeRenderSpec(ctx, spec, "json")
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"animal": "wt-01"`)

	dotData, err := encodeRenderSpec(ctx, spec, "dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dotData), "graph connectome {"))

	_, err = encodeRenderSpec(ctx, spec, "png")
	require.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "wt_01_line_3", sanitizeFileName("wt 01/line:3"))
	assert.Equal(t, "plain", sanitizeFileName("plain"))
}
