package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/connectolab/graphmetrics/pkg/algorithms"
	"github.com/connectolab/graphmetrics/pkg/logging"
	"github.com/connectolab/graphmetrics/pkg/tabular"
)

// Load reads and parses an analysis config file, applies defaults,
// and validates the result.
func Load(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AnalysisConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadOptions maps the input section onto tabular reader options.
func (c *AnalysisConfig) ReadOptions() tabular.ReadOptions {
	return tabular.ReadOptions{
		AnimalColumn: c.Input.AnimalColumn,
		PairColumn:   c.Input.PairColumn,
		WeightColumn: c.Input.WeightColumn,
	}
}

// WriteOptions maps the output section onto tabular writer options.
func (c *AnalysisConfig) WriteOptions() tabular.WriteOptions {
	return tabular.WriteOptions{
		Format:   tabular.Format(c.Output.Format),
		Compress: c.Output.Compress,
		Pretty:   c.Output.Pretty,
	}
}

// PageRankOptions resolves PageRank options, falling back to algorithm
// defaults for unset fields.
func (c *AnalysisConfig) PageRankOptions() algorithms.PageRankOptions {
	opts := algorithms.DefaultPageRankOptions()
	if c.Options.PageRank.Damping > 0 {
		opts.DampingFactor = c.Options.PageRank.Damping
	}
	if c.Options.PageRank.MaxIterations > 0 {
		opts.MaxIterations = c.Options.PageRank.MaxIterations
	}
	if c.Options.PageRank.Tolerance > 0 {
		opts.Tolerance = c.Options.PageRank.Tolerance
	}
	return opts
}

// HITSOptions resolves HITS options.
func (c *AnalysisConfig) HITSOptions() algorithms.HITSOptions {
	opts := algorithms.DefaultHITSOptions()
	if c.Options.HITS.MaxIterations > 0 {
		opts.MaxIterations = c.Options.HITS.MaxIterations
	}
	if c.Options.HITS.Tolerance > 0 {
		opts.Tolerance = c.Options.HITS.Tolerance
	}
	return opts
}

// EigenvectorOptions resolves eigenvector centrality options.
func (c *AnalysisConfig) EigenvectorOptions() algorithms.EigenvectorOptions {
	opts := algorithms.DefaultEigenvectorOptions()
	if c.Options.Eigenvector.MaxIterations > 0 {
		opts.MaxIterations = c.Options.Eigenvector.MaxIterations
	}
	if c.Options.Eigenvector.Tolerance > 0 {
		opts.Tolerance = c.Options.Eigenvector.Tolerance
	}
	return opts
}

// CommunityOptions resolves community partitioning options.
func (c *AnalysisConfig) CommunityOptions() algorithms.CommunityOptions {
	opts := algorithms.DefaultCommunityOptions()
	if c.Options.Community.MaxLevels > 0 {
		opts.MaxLevels = c.Options.Community.MaxLevels
	}
	if c.Options.Community.MinGain > 0 {
		opts.MinGain = c.Options.Community.MinGain
	}
	return opts
}

// NewLogger builds the configured logger: a rotated file logger when a
// log file is set, stderr otherwise.
func (c *AnalysisConfig) NewLogger() logging.Logger {
	level := logging.ParseLevel(c.Logging.Level)
	if c.Logging.File == "" {
		return logging.NewJSONLogger(os.Stderr, level)
	}
	return logging.NewRotatingLogger(logging.RotationConfig{
		Filename:   c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}, level)
}
