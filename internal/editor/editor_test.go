// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg", "sub", "moved.py")

	require.NoError(t, Create(path, []byte("x = 1\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(got))

	err = Create(path, []byte("x = 2\n"))
	assert.ErrorIs(t, err, ErrFileExists)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(got), "existing file is left alone")
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("old = 1\n"), 0o644))

	require.NoError(t, ReplaceFile(path, []byte("new = 2\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new = 2\n", string(got))
}

func TestReplaceFile_CreatesMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.py")

	require.NoError(t, ReplaceFile(path, []byte("y = 1\n")))
	assert.FileExists(t, path)
}

func TestReplaceFile_KeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o755))

	require.NoError(t, ReplaceFile(path, []byte("new")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestDiff(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, Diff("a\nb\n", "a\nb\n"))
	})

	t.Run("changed line", func(t *testing.T) {
		got := Diff("import os\nx = 1\ny = 2\n", "import os\nx = 3\ny = 2\n")
		assert.Contains(t, got, "  import os\n")
		assert.Contains(t, got, "- x = 1\n")
		assert.Contains(t, got, "+ x = 3\n")
		assert.Contains(t, got, "  y = 2\n")
	})

	t.Run("new file", func(t *testing.T) {
		assert.Equal(t, "+ def f():\n+     pass\n", Diff("", "def f():\n    pass\n"))
	})

	t.Run("removed file", func(t *testing.T) {
		assert.Equal(t, "- z = 1\n", Diff("z = 1\n", ""))
	})
}

func TestSuggest(t *testing.T) {
	candidates := []string{"foo", "bar", "foobar", "Config"}

	tests := []struct {
		name string
		want string
	}{
		{"fooo", "foo"},
		{"foobaz", "foobar"},
		{"config", "Config"},
		{"zzzzzz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.name, candidates, DefaultSuggestThreshold))
		})
	}

	assert.Empty(t, Suggest("foo", nil, DefaultSuggestThreshold))
}

func TestSimilarity(t *testing.T) {
	dmp := diffmatchpatch.New()
	assert.Equal(t, 1.0, similarity(dmp, "abc", "abc"))
	assert.Equal(t, 0.0, similarity(dmp, "", "abc"))
	assert.InDelta(t, 0.75, similarity(dmp, "fooo", "foo"), 0.001)
}
