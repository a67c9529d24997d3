// Package target classifies the user-supplied path into the unit of work:
// a single Rust file, a crate, or a cargo workspace.
package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrTarget marks an unresolvable target path; fatal at startup.
var ErrTarget = errors.New("cannot resolve target")

// Kind classifies a resolved target.
type Kind int

const (
	// SingleFile is one .rs file.
	SingleFile Kind = iota
	// Crate is a directory with a Cargo.toml and no [workspace] section.
	Crate
	// Workspace is a directory whose Cargo.toml declares [workspace].
	Workspace
)

func (k Kind) String() string {
	switch k {
	case SingleFile:
		return "file"
	case Crate:
		return "crate"
	default:
		return "workspace"
	}
}

// Target is a resolved unit of work. Root is the directory configuration is
// loaded from and the verifier runs in: the file's parent for single files,
// the directory itself otherwise.
type Target struct {
	Kind Kind
	Path string
	Root string
}

// Resolve classifies raw (empty means the current directory). A file must
// have the .rs extension; a directory must contain a Cargo.toml.
func Resolve(raw string) (Target, error) {
	path := raw
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %s: %v", ErrTarget, path, err)
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".rs" {
			return Target{}, fmt.Errorf("%w: single-file mode requires a .rs file: %s", ErrTarget, path)
		}
		return Target{Kind: SingleFile, Path: path, Root: filepath.Dir(path)}, nil
	}

	manifest := filepath.Join(path, "Cargo.toml")
	data, err := os.ReadFile(manifest)
	if err != nil {
		return Target{}, fmt.Errorf("%w: no Cargo.toml in %s; provide a crate root or a single .rs file", ErrTarget, path)
	}
	if strings.Contains(string(data), "[workspace]") {
		return Target{Kind: Workspace, Path: path, Root: path}, nil
	}
	return Target{Kind: Crate, Path: path, Root: path}, nil
}
