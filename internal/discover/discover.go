// Package discover finds the .rs files a run operates on, applying the
// configured include/exclude patterns with gitignore-style matching.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
)

// Files walks root recursively and returns, sorted, the .rs files matched by
// include and not matched by exclude (exclude wins). Patterns match against
// root-relative, slash-separated paths. An empty include list means all files.
func Files(root string, include, exclude []string) ([]string, error) {
	inc := include
	if len(inc) == 0 {
		inc = []string{"**/*"}
	}
	incSet := ignore.CompileIgnoreLines(inc...)
	excSet := ignore.CompileIgnoreLines(exclude...)

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".rs" {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !incSet.MatchesPath(rel) {
			return nil
		}
		if excSet.MatchesPath(rel) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(out)
	return out, nil
}
