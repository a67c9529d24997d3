// Package verify runs the external build verification that decides whether a
// trial edit is kept. The runner is a narrow interface so the engine can be
// tested with scripted substitutes.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// ErrInvocation marks a verifier that could not be started at all. This is
// distinct from the verifier running and rejecting the tree, which is a
// normal Result with OK=false.
var ErrInvocation = errors.New("verifier could not be invoked")

// Result is the oracle's verdict for one trial.
type Result struct {
	OK       bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner is the correctness oracle: it checks the project at root and
// reports whether it still builds. Verify blocks until the external process
// exits; callers bound it through ctx.
type Runner interface {
	Verify(ctx context.Context, root string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, root string) (Result, error)

func (fn RunnerFunc) Verify(ctx context.Context, root string) (Result, error) {
	return fn(ctx, root)
}

// DefaultArgs verify the whole workspace with every feature and build target
// enabled, quietly.
func DefaultArgs() []string {
	return []string{"--workspace", "--all-features", "--all-targets", "--quiet"}
}

// CargoRunner verifies by running `cargo check` in the project root.
type CargoRunner struct {
	Args   []string
	Logger *zap.Logger
}

// NewCargoRunner builds a runner with the given extra arguments.
func NewCargoRunner(args []string, logger *zap.Logger) *CargoRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CargoRunner{Args: args, Logger: logger}
}

// Verify runs `cargo check` in root and captures its outcome. Concurrent
// runs against the same root are unsafe; the engine serializes calls.
func (r *CargoRunner) Verify(ctx context.Context, root string) (Result, error) {
	args := append([]string{"check"}, r.Args...)
	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Duration: time.Since(start),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	switch {
	case err == nil:
		res.OK = true
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("%w: cargo check in %s: %v", ErrInvocation, root, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	r.Logger.Debug("cargo check finished",
		zap.String("root", root),
		zap.Bool("ok", res.OK),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration))
	return res, nil
}
