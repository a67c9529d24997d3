// Package engine drives the greedy trial/verify/revert search: one bound is
// removed at a time, the external verifier decides whether the removal
// stands, and rejected trials are rolled back byte-for-byte. The on-disk
// file is buildable after every accepted step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"winnow/internal/analysis"
	"winnow/internal/edit"
	"winnow/internal/rustsrc"
	"winnow/internal/verify"
)

var (
	// ErrParse marks a file whose current bytes do not parse cleanly.
	ErrParse = errors.New("source does not parse")
	// ErrRestore marks the most dangerous failure: a rejected trial whose
	// pre-trial bytes could not be written back. It is never swallowed.
	ErrRestore = errors.New("failed to restore file after rejected trial")
)

// Outcome is the final state of one candidate trial.
type Outcome int

const (
	// OutcomeRemoved: the verifier accepted the removal; it is kept.
	OutcomeRemoved Outcome = iota
	// OutcomeRetained: the verifier rejected the removal; it was reverted.
	OutcomeRetained
	// OutcomeSkipped: no mutation happened, or the mutation was a textual
	// no-op; the verifier was never invoked.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemoved:
		return "removed"
	case OutcomeRetained:
		return "retained"
	default:
		return "skipped"
	}
}

// Trial is one ledger entry: a candidate and what became of it.
type Trial struct {
	ItemLabel string
	ItemKind  analysis.ItemKind
	Candidate analysis.BoundCandidate
	Outcome   Outcome
	// Verify holds the oracle's verdict for removed/retained trials;
	// nil for skipped ones.
	Verify *verify.Result
}

// FileReport is the full outcome ledger for one file.
type FileReport struct {
	Path   string
	RunID  string
	Trials []Trial
}

// Counts tallies the ledger by outcome.
func (r *FileReport) Counts() (removed, retained, skipped int) {
	for _, t := range r.Trials {
		switch t.Outcome {
		case OutcomeRemoved:
			removed++
		case OutcomeRetained:
			retained++
		default:
			skipped++
		}
	}
	return
}

func (r *FileReport) record(it analysis.Item, cand analysis.BoundCandidate, o Outcome, res *verify.Result) {
	r.Trials = append(r.Trials, Trial{
		ItemLabel: it.Label,
		ItemKind:  it.Kind,
		Candidate: cand,
		Outcome:   o,
		Verify:    res,
	})
}

// Survey describes a file without mutating it: the items that carry bounds
// and the number of individually removable candidates.
type Survey struct {
	Path       string
	Items      []analysis.Item
	Candidates int
}

// Engine prunes bounds from one file at a time. It owns a single parser and
// serializes verifier invocations; it must not be shared across goroutines.
type Engine struct {
	parser *rustsrc.Parser
	runner verify.Runner
	logger *zap.Logger

	// MaxItems caps the number of items processed per kind per file;
	// zero or negative means unbounded.
	MaxItems int
}

// New builds an engine around the given oracle.
func New(runner verify.Runner, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		parser: rustsrc.NewParser(),
		runner: runner,
		logger: logger,
	}
}

// fileState is the engine's working snapshot: the bytes believed to be on
// disk, their parse tree, and their checksum. It only advances on acceptance.
type fileState struct {
	src  []byte
	f    *rustsrc.File
	sum  uint32
	mode fs.FileMode
}

// SurveyFile extracts items and candidate counts without touching the file.
func (e *Engine) SurveyFile(ctx context.Context, path string) (*Survey, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := e.parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if f.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}

	s := &Survey{Path: path, Items: analysis.Extract(f)}
	for _, it := range s.Items {
		s.Candidates += len(analysis.Candidates(it))
	}
	return s, nil
}

// PruneFile runs the search over one file for the selected kinds, in the
// given order. Each kind pass re-reads the file so passes compose. The
// returned ledger covers every candidate tried; the error, if any, aborted
// the run early.
func (e *Engine) PruneFile(ctx context.Context, path, root string, kinds []analysis.ItemKind) (*FileReport, error) {
	rep := &FileReport{Path: path, RunID: uuid.NewString()}
	log := e.logger.With(zap.String("file", path), zap.String("run_id", rep.RunID))
	log.Debug("pruning file", zap.Int("kinds", len(kinds)))

	for _, kind := range kinds {
		if err := e.pruneKind(ctx, path, root, kind, rep, log); err != nil {
			return rep, err
		}
	}

	removed, retained, skipped := rep.Counts()
	log.Info("file done",
		zap.Int("removed", removed),
		zap.Int("retained", retained),
		zap.Int("skipped", skipped))
	return rep, nil
}

func (e *Engine) pruneKind(ctx context.Context, path, root string, kind analysis.ItemKind, rep *FileReport, log *zap.Logger) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	mode := fs.FileMode(0o644)
	if info, serr := os.Stat(path); serr == nil {
		mode = info.Mode().Perm()
	}

	f, err := e.parser.Parse(ctx, src)
	if err != nil {
		return err
	}
	if f.HasError() {
		f.Close()
		return fmt.Errorf("%w: %s", ErrParse, path)
	}

	st := &fileState{src: src, f: f, sum: crc32.ChecksumIEEE(src), mode: mode}
	defer func() { st.f.Close() }()

	finished := make(map[string]bool)
	started := make(map[string]bool)
	for {
		items := itemsOfKind(analysis.Extract(st.f), kind)
		it, id := nextItem(items, finished)
		if it == nil {
			return nil
		}
		if !started[id] {
			if e.MaxItems > 0 && len(started) >= e.MaxItems {
				return nil
			}
			started[id] = true
		}

		accepted, err := e.tryItem(ctx, path, root, st, *it, rep, log)
		if err != nil {
			return err
		}
		if accepted {
			// Coordinates are stale after a removal: loop to re-extract the
			// same item from the mutated tree before trying more candidates.
			continue
		}
		finished[id] = true
	}
}

// tryItem tries the item's candidates in order and stops at the first
// accepted removal, advancing st to the mutated snapshot.
func (e *Engine) tryItem(ctx context.Context, path, root string, st *fileState, it analysis.Item, rep *FileReport, log *zap.Logger) (bool, error) {
	target := edit.Target{Kind: it.Kind, Name: it.Name, Anchor: it.Anchor}

	for _, cand := range analysis.Candidates(it) {
		trial, mutated := edit.Apply(st.f, target, cand.Site)
		if !mutated {
			rep.record(it, cand, OutcomeSkipped, nil)
			continue
		}
		sum := crc32.ChecksumIEEE(trial)
		if sum == st.sum {
			// Textual no-op: nothing to verify.
			rep.record(it, cand, OutcomeSkipped, nil)
			continue
		}

		accepted, res, err := e.verifyTrial(ctx, path, root, trial, st)
		if err != nil {
			return false, err
		}
		if !accepted {
			rep.record(it, cand, OutcomeRetained, &res)
			log.Debug("bound retained",
				zap.String("item", it.Label),
				zap.String("bound", cand.Bound))
			continue
		}

		nf, perr := e.parser.Parse(ctx, trial)
		if perr != nil {
			return false, fmt.Errorf("reparsing %s after accepted removal: %w", path, perr)
		}
		st.f.Close()
		st.f = nf
		st.src = trial
		st.sum = sum
		rep.record(it, cand, OutcomeRemoved, &res)
		log.Info("bound removed",
			zap.String("item", it.Label),
			zap.String("site", cand.Site.String()),
			zap.String("bound", cand.Bound))
		return true, nil
	}
	return false, nil
}

// verifyTrial writes the trial bytes, consults the oracle, and guarantees
// the baseline bytes are restored on every non-accepting path, including
// invocation errors. A restore failure is joined onto whatever error was in
// flight so it is always surfaced.
func (e *Engine) verifyTrial(ctx context.Context, path, root string, trial []byte, st *fileState) (accepted bool, res verify.Result, err error) {
	if werr := os.WriteFile(path, trial, st.mode); werr != nil {
		return false, res, fmt.Errorf("writing trial to %s: %w", path, werr)
	}
	defer func() {
		if accepted {
			return
		}
		if rerr := os.WriteFile(path, st.src, st.mode); rerr != nil {
			rerr = fmt.Errorf("%w: %s: %v", ErrRestore, path, rerr)
			if err != nil {
				err = errors.Join(err, rerr)
			} else {
				err = rerr
			}
		}
	}()

	res, verr := e.runner.Verify(ctx, root)
	if verr != nil {
		return false, res, fmt.Errorf("verifying %s: %w", path, verr)
	}
	return res.OK, res, nil
}

func itemsOfKind(items []analysis.Item, kind analysis.ItemKind) []analysis.Item {
	out := items[:0:0]
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// nextItem picks the first unfinished item. Identity is the item's label
// plus its ordinal among same-labelled items, which survives re-extraction:
// pruning changes bounds, never the set or order of declarations.
func nextItem(items []analysis.Item, finished map[string]bool) (*analysis.Item, string) {
	seen := make(map[string]int)
	for i := range items {
		id := fmt.Sprintf("%s#%d", items[i].Label, seen[items[i].Label])
		seen[items[i].Label]++
		if !finished[id] {
			return &items[i], id
		}
	}
	return nil, ""
}
