package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"winnow/internal/config"
	"winnow/internal/discover"
	"winnow/internal/engine"
	"winnow/internal/report"
	"winnow/internal/target"
)

// checkCmd reports items and removable bounds without mutating anything.
var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Report declarations with removable bounds, without editing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	tgt, err := target.Resolve(raw)
	if err != nil {
		return err
	}
	limit, err := parseLimit()
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

	// check never verifies, so the engine gets no runner.
	eng := engine.New(nil, logger)
	var surveys []*engine.Survey
	for _, f := range files {
		s, err := eng.SurveyFile(ctx, f)
		if err != nil {
			return err
		}
		if limit > 0 && len(s.Items) > limit {
			s.Items = s.Items[:limit]
		}
		surveys = append(surveys, s)
	}

	if !quiet {
		report.Surveys(os.Stdout, surveys, verbosity > 0)
	}
	return nil
}

// targetFiles lists the files a target covers, honoring configuration for
// crate and workspace targets.
func targetFiles(tgt target.Target) ([]string, error) {
	if tgt.Kind == target.SingleFile {
		return []string{tgt.Path}, nil
	}
	cfg, err := config.Load(tgt.Root)
	if err != nil {
		return nil, err
	}
	files, err := discover.Files(tgt.Root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", zap.String("root", tgt.Root), zap.Int("count", len(files)))
	return files, nil
}
