package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"winnow/internal/analysis"
)

var (
	// Global flags
	verbosity int
	quiet     bool
	timeout   time.Duration
	limitFlag string
	kindFlag  string

	// Logger, built once per invocation
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "winnow",
	Short: "Remove unnecessary Rust trait bounds",
	Long: `winnow trims over-constrained generic signatures in Rust code.

It removes one trait bound at a time and keeps a removal only when
cargo check still succeeds, so the source tree builds after every
accepted edit. Bounds the build actually needs are put back exactly
as they were.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "silence all output")
	pf.DurationVar(&timeout, "timeout", 30*time.Minute, "bound the whole run, including verifier invocations")
	pf.StringVarP(&limitFlag, "limit", "n", "10", "cap on files and items processed, or 'all'")
	pf.StringVarP(&kindFlag, "kind", "k", "all",
		"item kind to operate on: function|struct|enum|trait|impl|trait-method|impl-method|all")

	rootCmd.AddCommand(initCmd, checkCmd, pruneCmd)
}

func buildLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	switch verbosity {
	case 0:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case 1:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// parseLimit interprets the -n flag: a number, or "all" for unbounded.
func parseLimit() (int, error) {
	s := strings.ToLower(strings.TrimSpace(limitFlag))
	if s == "" {
		return 10, nil
	}
	if s == "all" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --limit %q: want a positive number or 'all'", limitFlag)
	}
	return n, nil
}

// parseKinds interprets the --kind flag into the ordered kind list.
func parseKinds() ([]analysis.ItemKind, error) {
	s := strings.ToLower(strings.TrimSpace(kindFlag))
	if s == "" || s == "all" {
		return analysis.PruneOrder, nil
	}
	k, ok := analysis.ParseKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown --kind %q", kindFlag)
	}
	return []analysis.ItemKind{k}, nil
}

// capFiles applies the file limit to a discovered list.
func capFiles(files []string, limit int) []string {
	if limit > 0 && len(files) > limit {
		return files[:limit]
	}
	return files
}

func runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, timeout)
}
