package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winnow/internal/analysis"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"10", 10, true},
		{"1", 1, true},
		{"all", 0, true},
		{"ALL", 0, true},
		{"", 10, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"many", 0, false},
	}
	for _, tc := range cases {
		limitFlag = tc.in
		got, err := parseLimit()
		if !tc.ok {
			assert.Error(t, err, "limit %q", tc.in)
			continue
		}
		require.NoError(t, err, "limit %q", tc.in)
		assert.Equal(t, tc.want, got, "limit %q", tc.in)
	}
}

func TestParseKinds(t *testing.T) {
	kindFlag = "all"
	kinds, err := parseKinds()
	require.NoError(t, err)
	assert.Equal(t, analysis.PruneOrder, kinds)

	kindFlag = "struct"
	kinds, err = parseKinds()
	require.NoError(t, err)
	assert.Equal(t, []analysis.ItemKind{analysis.KindStruct}, kinds)

	kindFlag = "widget"
	_, err = parseKinds()
	assert.Error(t, err)
}

func TestEnclosingCrateRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644))
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	file := filepath.Join(src, "lib.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn f() {}\n"), 0o644))

	root, ok := enclosingCrateRoot(file)
	require.True(t, ok)
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	wantRoot, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, resolved)
}

func TestCapFiles(t *testing.T) {
	files := []string{"a.rs", "b.rs", "c.rs"}
	assert.Equal(t, files, capFiles(files, 0))
	assert.Equal(t, files, capFiles(files, 5))
	assert.Equal(t, files[:2], capFiles(files, 2))
}
