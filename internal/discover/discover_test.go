package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed creates the named files under root, with intermediate directories.
func seed(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("fn f() {}\n"), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestFilesIncludeExclude(t *testing.T) {
	root := t.TempDir()
	seed(t, root,
		"src/lib.rs",
		"src/util/helpers.rs",
		"target/debug/build.rs",
		"tests/integration.rs",
		"README.md",
	)

	got, err := Files(root, []string{"**/*.rs"}, []string{"target/**", "**/tests/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs", "src/util/helpers.rs"}, rel(t, root, got))
}

func TestFilesOnlyRustFiles(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "a.rs", "b.txt", "c.rs.bak")

	got, err := Files(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rs"}, rel(t, root, got))
}

func TestFilesExcludeWinsOverInclude(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "src/gen/out.rs", "src/main.rs")

	got, err := Files(root, []string{"**/*.rs"}, []string{"src/gen/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.rs"}, rel(t, root, got))
}

func TestFilesSortedOutput(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "z.rs", "a.rs", "m/mid.rs")

	got, err := Files(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rs", "m/mid.rs", "z.rs"}, rel(t, root, got))
}

func TestFilesEmptyTree(t *testing.T) {
	got, err := Files(t.TempDir(), []string{"**/*.rs"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
