// Package report renders outcome ledgers and surveys for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"winnow/internal/engine"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	retainedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// Prune writes the ledger of a prune run, grouped per file. Removed bounds
// are always listed; retained and skipped candidates only when verbose.
func Prune(w io.Writer, reports []*engine.FileReport, verbose bool) {
	var removed, retained, skipped int
	for _, rep := range reports {
		r, k, s := rep.Counts()
		removed += r
		retained += k
		skipped += s

		if r == 0 && !verbose {
			continue
		}
		fmt.Fprintln(w, headerStyle.Render(rep.Path))
		for _, t := range rep.Trials {
			switch t.Outcome {
			case engine.OutcomeRemoved:
				fmt.Fprintf(w, "  %s %s: %s %s\n",
					removedStyle.Render("removed"), t.ItemLabel, t.Candidate.Bound,
					dimStyle.Render(t.Candidate.Site.String()))
			case engine.OutcomeRetained:
				if verbose {
					fmt.Fprintf(w, "  %s %s: %s\n",
						retainedStyle.Render("retained"), t.ItemLabel, t.Candidate.Bound)
				}
			case engine.OutcomeSkipped:
				if verbose {
					fmt.Fprintf(w, "  %s %s: %s\n",
						dimStyle.Render("skipped"), t.ItemLabel, t.Candidate.Bound)
				}
			}
		}
	}

	fmt.Fprintf(w, "%s removed, %d retained, %d skipped across %d file(s)\n",
		removedStyle.Render(fmt.Sprintf("%d", removed)), retained, skipped, len(reports))
}

// Surveys writes a check run: every item carrying bounds, with its candidate
// count, then totals.
func Surveys(w io.Writer, surveys []*engine.Survey, verbose bool) {
	var items, candidates int
	for _, s := range surveys {
		items += len(s.Items)
		candidates += s.Candidates

		if len(s.Items) == 0 && !verbose {
			continue
		}
		fmt.Fprintln(w, headerStyle.Render(s.Path))
		for _, it := range s.Items {
			n := 0
			for _, pb := range it.Params {
				n += len(pb.Bounds)
			}
			for _, wb := range it.Wheres {
				n += len(wb.Bounds)
			}
			fmt.Fprintf(w, "  %s %s\n", it.Label, dimStyle.Render(fmt.Sprintf("(%d bound(s))", n)))
		}
	}

	fmt.Fprintf(w, "%d item(s) with %d removable bound(s) across %d file(s)\n",
		items, candidates, len(surveys))
}

// DryRun writes the counts-only summary printed when prune runs without
// --execute.
func DryRun(w io.Writer, files, items, candidates int) {
	fmt.Fprintf(w, "dry run: %d file(s), %d item(s), %d candidate bound(s); pass --execute to prune\n",
		files, items, candidates)
}
