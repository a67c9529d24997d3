package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"winnow/internal/config"
	"winnow/internal/engine"
	"winnow/internal/report"
	"winnow/internal/target"
	"winnow/internal/verify"
)

var pruneExecute bool

// pruneCmd removes bounds the build does not need. Without --execute it only
// reports what a run would look at.
var pruneCmd = &cobra.Command{
	Use:   "prune [target]",
	Short: "Remove trait bounds that cargo check proves unnecessary",
	Long: `Tries removing each bound of each selected declaration, one at a
time. A removal is kept only when the configured cargo check still
succeeds; otherwise the file is restored byte-for-byte.

Without --execute the command is a dry run and prints only the number
of files, items, and candidate bounds it would work through.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneExecute, "execute", false, "actually edit files (omit for a dry run)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	tgt, err := target.Resolve(raw)
	if err != nil {
		return err
	}
	if pruneExecute && tgt.Kind == target.SingleFile {
		// A lone file can still be pruned when it belongs to a crate: the
		// verifier then runs at the enclosing crate root.
		root, ok := enclosingCrateRoot(tgt.Path)
		if !ok {
			return fmt.Errorf("prune --execute needs a crate or workspace so the verifier can run; %s is not inside one", tgt.Path)
		}
		tgt.Root = root
	}

	limit, err := parseLimit()
	if err != nil {
		return err
	}
	kinds, err := parseKinds()
	if err != nil {
		return err
	}

	cfg, err := config.Load(tgt.Root)
	if err != nil {
		return err
	}
	files, err := targetFiles(tgt)
	if err != nil {
		return err
	}
	files = capFiles(files, limit)

	ctx, cancel := runContext(cmd)
	defer cancel()

	if !pruneExecute {
		eng := engine.New(nil, logger)
		items, candidates := 0, 0
		for _, f := range files {
			s, err := eng.SurveyFile(ctx, f)
			if err != nil {
				return err
			}
			items += len(s.Items)
			candidates += s.Candidates
		}
		if !quiet {
			report.DryRun(os.Stdout, len(files), items, candidates)
		}
		return nil
	}

	runner := verify.NewCargoRunner(cfg.CheckArgs, logger)
	eng := engine.New(runner, logger)
	eng.MaxItems = limit

	var bar *progressbar.ProgressBar
	if !quiet && verbosity == 0 && len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("pruning"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var reports []*engine.FileReport
	for _, f := range files {
		rep, err := eng.PruneFile(ctx, f, tgt.Root, kinds)
		if err != nil {
			logger.Error("prune aborted", zap.String("file", f), zap.Error(err))
			return err
		}
		reports = append(reports, rep)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if !quiet {
		report.Prune(os.Stdout, reports, verbosity > 0)
	}
	return nil
}

// enclosingCrateRoot walks up from a file to the nearest directory holding a
// Cargo.toml.
func enclosingCrateRoot(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(abs)
	for {
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
