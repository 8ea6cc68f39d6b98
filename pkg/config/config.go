// Package config loads and validates the YAML analysis configuration.
// A config file describes one run end to end: where the edge table
// lives, which metrics to compute, per-algorithm overrides, and how
// results are written.
package config

import (
	"fmt"
	"time"

	"github.com/connectolab/graphmetrics/pkg/results"
	"github.com/connectolab/graphmetrics/pkg/tabular"
	"github.com/connectolab/graphmetrics/pkg/validation"
)

// AnalysisConfig is the root configuration for an analysis run.
type AnalysisConfig struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output,omitempty"`
	Metrics       []string            `yaml:"metrics,omitempty" validate:"omitempty,dive,metric"`
	Options       OptionsConfig       `yaml:"options,omitempty"`
	Workers       int                 `yaml:"workers,omitempty" validate:"min=0,max=256"`
	Timeout       string              `yaml:"timeout,omitempty"`
	Logging       LoggingConfig       `yaml:"logging,omitempty"`
	Visualization VisualizationConfig `yaml:"visualization,omitempty"`
}

// InputConfig locates the edge table and names its columns.
type InputConfig struct {
	Path         string `yaml:"path" validate:"required"`
	AnimalColumn string `yaml:"animal_column,omitempty"`
	PairColumn   string `yaml:"pair_column,omitempty"`
	WeightColumn string `yaml:"weight_column,omitempty"`
}

// OutputConfig controls where and how metric tables are written.
type OutputConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	Format   string `yaml:"format,omitempty" validate:"omitempty,oneof=csv json jsonl"`
	Compress bool   `yaml:"compress,omitempty"`
	Pretty   bool   `yaml:"pretty,omitempty"`
}

// OptionsConfig carries per-algorithm overrides. Zero values mean the
// algorithm defaults.
type OptionsConfig struct {
	PageRank    PageRankConfig    `yaml:"pagerank,omitempty"`
	HITS        HITSConfig        `yaml:"hits,omitempty"`
	Eigenvector EigenvectorConfig `yaml:"eigenvector,omitempty"`
	Community   CommunityConfig   `yaml:"community,omitempty"`
}

// PageRankConfig overrides PageRank iteration parameters.
type PageRankConfig struct {
	Damping       float64 `yaml:"damping,omitempty" validate:"omitempty,gt=0,lt=1"`
	MaxIterations int     `yaml:"max_iterations,omitempty" validate:"min=0"`
	Tolerance     float64 `yaml:"tolerance,omitempty" validate:"min=0"`
}

// HITSConfig overrides HITS iteration parameters.
type HITSConfig struct {
	MaxIterations int     `yaml:"max_iterations,omitempty" validate:"min=0"`
	Tolerance     float64 `yaml:"tolerance,omitempty" validate:"min=0"`
}

// EigenvectorConfig overrides eigenvector centrality iteration
// parameters.
type EigenvectorConfig struct {
	MaxIterations int     `yaml:"max_iterations,omitempty" validate:"min=0"`
	Tolerance     float64 `yaml:"tolerance,omitempty" validate:"min=0"`
}

// CommunityConfig overrides community partitioning parameters.
type CommunityConfig struct {
	MaxLevels int     `yaml:"max_levels,omitempty" validate:"min=0"`
	MinGain   float64 `yaml:"min_gain,omitempty" validate:"min=0"`
}

// LoggingConfig selects the log level and an optional rotated log file.
// With no file configured, logs go to stderr.
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups,omitempty" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty" validate:"min=0"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// VisualizationConfig controls network rendering.
type VisualizationConfig struct {
	Layout     string `yaml:"layout,omitempty" validate:"omitempty,oneof=force circular mds"`
	Format     string `yaml:"format,omitempty" validate:"omitempty,oneof=json dot svg"`
	Iterations int    `yaml:"iterations,omitempty" validate:"min=0"`
}

// DefaultAnalysisConfig returns a config with every optional field at
// its default. Input.Path is left empty and must be set by the caller.
func DefaultAnalysisConfig() *AnalysisConfig {
	cfg := &AnalysisConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields in place.
func (c *AnalysisConfig) ApplyDefaults() {
	c.Input.AnimalColumn = validation.DefaultOr(c.Input.AnimalColumn, tabular.ColumnAnimal)
	c.Input.PairColumn = validation.DefaultOr(c.Input.PairColumn, tabular.ColumnNeuronPair)
	c.Input.WeightColumn = validation.DefaultOr(c.Input.WeightColumn, tabular.ColumnEdgeWeight)

	c.Output.Dir = validation.DefaultOr(c.Output.Dir, "results")
	c.Output.Format = validation.DefaultOr(c.Output.Format, string(tabular.FormatCSV))

	if len(c.Metrics) == 0 {
		c.Metrics = results.AllMetrics()
	}

	c.Logging.Level = validation.DefaultOr(c.Logging.Level, "info")
	c.Logging.MaxSizeMB = validation.DefaultOrInt(c.Logging.MaxSizeMB, 100)

	c.Visualization.Layout = validation.DefaultOr(c.Visualization.Layout, "force")
	c.Visualization.Format = validation.DefaultOr(c.Visualization.Format, "json")
	c.Visualization.Iterations = validation.DefaultOrInt(c.Visualization.Iterations, 100)
}

// Validate checks the config after defaults have been applied.
func (c *AnalysisConfig) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return validation.NewConfigValidator("AnalysisConfig").
		Custom("Metrics", func() error {
			return validation.ValidateMetricNames(c.Metrics)
		}).
		When(c.Timeout != "", func(cv *validation.ConfigValidator) {
			d, err := time.ParseDuration(c.Timeout)
			if err != nil {
				cv.Custom("Timeout", func() error {
					return fmt.Errorf("invalid duration %q", c.Timeout)
				})
				return
			}
			cv.MinDuration("Timeout", d, time.Second)
		}).
		Validate()
}

// GetWorkers resolves the worker count. The default is 1: animals are
// processed serially unless parallelism is asked for, and any worker
// count produces identical output.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

// GetTimeout parses the run timeout. Zero means no timeout.
func (c *AnalysisConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}
