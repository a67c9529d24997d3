// Package config loads and writes the .winnow.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up at the target root.
const FileName = ".winnow.toml"

// ErrConfig marks a malformed configuration file; fatal at startup.
var ErrConfig = errors.New("invalid configuration")

// Config controls file selection and verifier invocation.
type Config struct {
	// Include holds gitignore-style patterns selecting files to process.
	Include []string
	// Exclude holds patterns removing files; exclude wins over include.
	Exclude []string
	// CheckArgs are passed to `cargo check` after the subcommand.
	CheckArgs []string
}

// Default returns the configuration used when no file is present: every .rs
// file except build output, VCS metadata, and test trees; whole-workspace
// verification.
func Default() Config {
	return Config{
		Include:   []string{"**/*.rs"},
		Exclude:   []string{"target/**", "**/.git/**", "**/tests/**"},
		CheckArgs: []string{"--workspace", "--all-features", "--all-targets", "--quiet"},
	}
}

// defaultTOML is the file written by `winnow init`.
const defaultTOML = `# winnow configuration.
# Patterns are gitignore-style, relative to this directory.

include = ["**/*.rs"]
exclude = ["target/**", "**/.git/**", "**/tests/**"]

[check]
args = ["--workspace", "--all-features", "--all-targets", "--quiet"]
`

// Load reads .winnow.toml from dir (or dir's parent when dir is a file).
// A missing file yields defaults; empty include/exclude lists in a present
// file are replaced by the defaults.
func Load(dir string) (Config, error) {
	base := baseDir(dir)
	path := filepath.Join(base, FileName)

	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}

	if inc := v.GetStringSlice("include"); len(inc) > 0 {
		cfg.Include = inc
	}
	if exc := v.GetStringSlice("exclude"); len(exc) > 0 {
		cfg.Exclude = exc
	}
	if v.IsSet("check.args") {
		cfg.CheckArgs = v.GetStringSlice("check.args")
	}
	return cfg, nil
}

// WriteDefault writes the default configuration into dir, refusing to
// overwrite an existing file unless force is set. It returns the file path.
func WriteDefault(dir string, force bool) (string, error) {
	base := baseDir(dir)
	path := filepath.Join(base, FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(defaultTOML), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func baseDir(dir string) string {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		if parent := filepath.Dir(dir); parent != "" {
			return parent
		}
	}
	return dir
}
