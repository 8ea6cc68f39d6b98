// Package cli implements the graphmetrics command-line interface:
// analyze runs the metric pipeline over an edge table, visualize
// renders a community partition, and browse opens a terminal UI over a
// results directory. Commands receive a structured logger through the
// command context.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connectolab/graphmetrics/pkg/logging"
)

var (
	version = "dev" // semantic version injected via ldflags
	commit  = "none"
	date    = "unknown"
)

// SetVersion records build information for the version command. Called
// by the main package with values injected at link time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches a logger to the context.
func withLogger(ctx context.Context, logger logging.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext returns the attached logger, or the process default
// when command setup has not run.
func loggerFromContext(ctx context.Context) logging.Logger {
	if logger, ok := ctx.Value(loggerKey).(logging.Logger); ok {
		return logger
	}
	return logging.DefaultLogger()
}

// NewRootCommand builds the graphmetrics command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "graphmetrics",
		Short:        "Compute graph metrics over neuronal connectivity tables",
		Long:         "graphmetrics computes per-animal network metrics (PageRank, HITS, eigenvector centrality, weighted clustering and degree, community structure, efficiency) from functional connectivity edge tables.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.InfoLevel
			if verbose {
				level = logging.DebugLevel
			}
			logger := logging.NewJSONLogger(os.Stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(versionString())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVisualizeCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func versionString() string {
	return fmt.Sprintf("graphmetrics %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(versionString())
		},
	}
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
