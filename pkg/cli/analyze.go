package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/connectolab/graphmetrics/pkg/config"
	"github.com/connectolab/graphmetrics/pkg/metrics"
	"github.com/connectolab/graphmetrics/pkg/pipeline"
)

// analyzeOpts holds the analyze command flags. Flags override the
// corresponding config file fields when set.
type analyzeOpts struct {
	configPath string
	input      string
	outputDir  string
	format     string
	metrics    []string
	workers    int
	compress   bool
	timeout    string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute metric tables from an edge table",
		Long:  "Analyze reads a connectivity edge table, builds one weighted graph per animal, computes the configured metrics, and writes one output table per metric.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveAnalysisConfig(&opts)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "analysis config file (YAML)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "edge table path (overrides config)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv, json, jsonl")
	cmd.Flags().StringSliceVarP(&opts.metrics, "metrics", "m", nil, "metrics to compute (comma-separated)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "animals processed in parallel")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "snappy-compress output tables")
	cmd.Flags().StringVar(&opts.timeout, "timeout", "", "whole-run timeout (e.g. 5m)")

	return cmd
}

// resolveAnalysisConfig loads the config file if given, applies flag
// overrides, and re-validates the merged result.
func resolveAnalysisConfig(opts *analyzeOpts) (*config.AnalysisConfig, error) {
	var cfg *config.AnalysisConfig
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultAnalysisConfig()
	}

	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if len(opts.metrics) > 0 {
		cfg.Metrics = opts.metrics
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.compress {
		cfg.Output.Compress = true
	}
	if opts.timeout != "" {
		cfg.Timeout = opts.timeout
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalyze(ctx context.Context, cfg *config.AnalysisConfig) error {
	logger := loggerFromContext(ctx)
	if cfg.Logging.File != "" {
		logger = cfg.NewLogger()
	}

	runner := pipeline.NewRunner(cfg, logger, metrics.DefaultRegistry())

	spin := newSpinner(ctx, fmt.Sprintf("analyzing %s", cfg.Input.Path))
	spin.Start()
	summary, err := runner.Run(ctx)
	spin.Stop()

	if err != nil {
		printError("analysis failed: %v", err)
		return err
	}

	printAnalysisSummary(summary)
	return nil
}

func printAnalysisSummary(summary *pipeline.Summary) {
	printSuccess("analysis complete in %s", summary.Duration.Round(time.Millisecond))
	printKeyValue("run", summary.RunID)
	printKeyValue("rows", humanize.Comma(int64(summary.Rows)))
	printKeyValue("animals", humanize.Comma(int64(len(summary.Animals))))
	printKeyValue("graph", fmt.Sprintf("%s neurons, %s edges",
		humanize.Comma(int64(summary.Nodes)), humanize.Comma(int64(summary.Edges))))
	printKeyValue("metrics", strings.Join(summary.Metrics, ", "))

	for _, skip := range summary.Skipped {
		printWarning("skipped %s/%s: %s", skip.Animal, skip.Metric, skip.Reason)
	}
	for _, path := range summary.Tables {
		printFile(path)
	}
}
