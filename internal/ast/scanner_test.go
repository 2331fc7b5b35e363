// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFixtures creates the package layout used by the scanner tests.
func setupFixtures(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFixture(t, root, "main.py", `import sys

from lib.helper import run


if __name__ == "__main__":
    run(sys.argv)
`)

	writeFixture(t, root, "lib/__init__.py", "")
	writeFixture(t, root, "lib/helper.py", `import os


def run(argv):
    return os.getcwd(), argv
`)
	writeFixture(t, root, "lib/types.py", `from dataclasses import dataclass


@dataclass
class Config:
    name: str
    timeout: int = 30
`)

	// Files that should be skipped.
	writeFixture(t, root, ".venv/lib/site.py", "def site():\n    pass\n")
	writeFixture(t, root, "__pycache__/cached.py", "x = 1\n")
	writeFixture(t, root, ".git/hooks/hook.py", "x = 1\n")
	writeFixture(t, root, "lib/notes.txt", "not python")

	// Broken file for error collection test.
	writeFixture(t, root, "broken.py", "def broken(:\n    pass\n")

	return root
}

func writeFixture(t *testing.T, root, relPath, content string) {
	t.Helper()
	fullPath := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

func TestScanDir(t *testing.T) {
	root := setupFixtures(t)

	tests := []struct {
		name  string
		check func(t *testing.T, result *ScanResult)
	}{
		{
			name: "finds all .py files",
			check: func(t *testing.T, result *ScanResult) {
				assert.Contains(t, result.Trees, "main.py")
				assert.Contains(t, result.Trees, filepath.Join("lib", "__init__.py"))
				assert.Contains(t, result.Trees, filepath.Join("lib", "helper.py"))
				assert.Contains(t, result.Trees, filepath.Join("lib", "types.py"))
				assert.Len(t, result.Trees, 4)
			},
		},
		{
			name: "skips virtualenv cache and .git directories",
			check: func(t *testing.T, result *ScanResult) {
				for path := range result.Trees {
					assert.NotContains(t, path, ".venv")
					assert.NotContains(t, path, "__pycache__")
					assert.NotContains(t, path, ".git")
				}
			},
		},
		{
			name: "collects parse errors without aborting",
			check: func(t *testing.T, result *ScanResult) {
				require.Len(t, result.Errors, 1)
				assert.Equal(t, "broken.py", result.Errors[0].FilePath)
				assert.Contains(t, result.Errors[0].Error(), "broken.py")
			},
		},
		{
			name: "trees keep their statements",
			check: func(t *testing.T, result *ScanResult) {
				tree := result.Trees[filepath.Join("lib", "helper.py")]
				require.NotNil(t, tree)
				assert.Len(t, tree.Statements, 2)
			},
		},
	}

	result, err := ScanDir(context.Background(), root, ScanOptions{Concurrency: 4})
	require.NoError(t, err)
	require.NotNil(t, result)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, result)
		})
	}
}

func TestScanDirErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := ScanDir(ctx, "/nonexistent/path/12345", ScanOptions{})
		assert.Error(t, err)
	})

	t.Run("file not directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "mod.py", "x = 1\n")

		_, err := ScanDir(ctx, filepath.Join(dir, "mod.py"), ScanOptions{})
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		result, err := ScanDir(ctx, t.TempDir(), ScanOptions{})
		require.NoError(t, err)
		assert.Empty(t, result.Trees)
		assert.Empty(t, result.Errors)
	})

	t.Run("default concurrency", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "hello.py", "def hello():\n    pass\n")

		result, err := ScanDir(ctx, dir, ScanOptions{Concurrency: 0})
		require.NoError(t, err)
		assert.Len(t, result.Trees, 1)
	})

	t.Run("canceled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "hello.py", "def hello():\n    pass\n")

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ScanDir(canceled, dir, ScanOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestScanDirGitignore(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, ".gitignore", "# generated code\ngenerated/\n*_pb2.py\n")
	writeFixture(t, root, "main.py", "def main():\n    pass\n")
	writeFixture(t, root, "generated/output.py", "def gen():\n    pass\n")
	writeFixture(t, root, "api_pb2.py", "X = 1\n")

	result, err := ScanDir(context.Background(), root, ScanOptions{})
	require.NoError(t, err)

	assert.Contains(t, result.Trees, "main.py")
	assert.NotContains(t, result.Trees, filepath.Join("generated", "output.py"))
	assert.NotContains(t, result.Trees, "api_pb2.py")
}

func TestScanDirExclude(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, "app/main.py", "def main():\n    pass\n")
	writeFixture(t, root, "app/test_main.py", "def test_main():\n    pass\n")
	writeFixture(t, root, "legacy/old.py", "def old():\n    pass\n")

	result, err := ScanDir(context.Background(), root, ScanOptions{
		Exclude: []string{"legacy", "test_*.py"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("app", "main.py")}, keys(result.Trees))
}

func TestIgnorer(t *testing.T) {
	ig, err := newIgnorer([]string{"build/", "*.gen.py", "docs/**"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"build", true},
		{"pkg/build/mod.py", true},
		{"pkg/schema.gen.py", true},
		{"docs/conf/source.py", true},
		{"pkg/mod.py", false},
		{"builder.py", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ig.isIgnored(tt.path))
		})
	}
}
