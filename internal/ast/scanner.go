// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ast analyzes parsed Python modules: it builds symbol tables and
// dependency graphs, and extracts symbols into new self-importing modules.
package ast

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/petar-djukic/pysplit/internal/parser"
	"github.com/petar-djukic/pysplit/pkg/types"
)

// skipDirs contains directory names that ScanDir skips by default.
var skipDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	"node_modules": true,
}

// ScanOptions configures a directory scan.
type ScanOptions struct {
	Concurrency int          // Parser goroutines; <= 0 means runtime.NumCPU()
	Exclude     []string     // Glob patterns matched against relative paths and path components
	Logger      *slog.Logger // Defaults to slog.Default()
}

// ScanResult holds the output of a directory scan.
type ScanResult struct {
	Trees  map[string]*types.SourceTree // Keyed by path relative to the scanned directory
	Errors []ScanError
}

// ScanError records a read or parse failure for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// ScanDir walks the directory tree rooted at dir, finds all .py files,
// and parses them in parallel using a bounded worker pool.
//
// Patterns from a .gitignore in dir are excluded along with opts.Exclude.
// Failures for individual files are collected in ScanResult.Errors but do
// not abort the scan.
func ScanDir(ctx context.Context, dir string, opts ScanOptions) (*ScanResult, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignorer, err := newIgnorer(append(loadGitignore(absDir), opts.Exclude...))
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			relPath = path
		}
		if d.IsDir() {
			if path != absDir && (skipDirs[d.Name()] || ignorer.isIgnored(relPath)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") || ignorer.isIgnored(relPath) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	result := &ScanResult{Trees: make(map[string]*types.SourceTree, len(paths))}
	if len(paths) == 0 {
		return result, nil
	}

	type parseResult struct {
		path string
		tree *types.SourceTree
		err  error
	}

	jobs := make(chan string, len(paths))
	results := make(chan parseResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				src, readErr := os.ReadFile(path)
				if readErr != nil {
					results <- parseResult{path: path, err: readErr}
					continue
				}
				tree, parseErr := parser.Parse(ctx, path, src)
				results <- parseResult{path: path, tree: tree, err: parseErr}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for pr := range results {
		relPath, relErr := filepath.Rel(absDir, pr.path)
		if relErr != nil {
			relPath = pr.path
		}
		if pr.err != nil {
			logger.Warn("skipping module", "path", relPath, "error", pr.err)
			result.Errors = append(result.Errors, ScanError{FilePath: relPath, Err: pr.err})
			continue
		}
		logger.Debug("parsed module", "path", relPath, "statements", len(pr.tree.Statements))
		result.Trees[relPath] = pr.tree
	}

	return result, ctx.Err()
}

// ignorer matches relative paths against compiled glob patterns.
type ignorer struct {
	globs []glob.Glob
}

func newIgnorer(patterns []string) (ignorer, error) {
	var ig ignorer
	for _, p := range patterns {
		g, err := glob.Compile(strings.TrimSuffix(p, "/"), '/')
		if err != nil {
			return ignorer{}, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		ig.globs = append(ig.globs, g)
	}
	return ig, nil
}

// loadGitignore reads .gitignore from the root directory. Blank lines,
// comments and negations are skipped.
func loadGitignore(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(line, "/"))
	}
	return patterns
}

// isIgnored checks whether a relative path, or any of its components,
// matches an exclude pattern.
func (ig ignorer) isIgnored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	parts := strings.Split(relPath, "/")
	for _, g := range ig.globs {
		if g.Match(relPath) {
			return true
		}
		for _, part := range parts {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}
