// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package refactor implements the Runner that wires parsing, analysis,
// rendering, file output and git together for one request.
package refactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/petar-djukic/pysplit/internal/ast"
	"github.com/petar-djukic/pysplit/internal/editor"
	gitpkg "github.com/petar-djukic/pysplit/internal/git"
	"github.com/petar-djukic/pysplit/internal/graph"
	"github.com/petar-djukic/pysplit/internal/parser"
	"github.com/petar-djukic/pysplit/pkg/types"
)

const defaultCacheSize = 64

// ErrInvalidModuleName is returned when a move must import from an origin
// whose dotted name Python cannot import.
var ErrInvalidModuleName = errors.New("invalid origin module name")

// Deps holds injected dependencies for the runner.
type Deps struct {
	Logger      *slog.Logger // Defaults to slog.Default()
	WorkDir     string       // Base for relative paths and module names outside git
	Module      string       // Origin module override; derived from the path when empty
	CacheSize   int          // Parsed-module LRU capacity
	Exclude     []string     // Glob patterns skipped by directory scans
	Concurrency int          // Scanner parse workers
}

// MoveResult holds the module built by Runner.Move.
type MoveResult struct {
	Path   string            // Module the symbols were taken from
	Origin string            // Dotted origin used in synthesized imports
	Names  []string          // Requested symbols, in request order
	Tree   *types.SourceTree // Merged extraction
	Source []byte            // Rendered Python source
}

// ModuleGraph holds the dependency graph of one module.
type ModuleGraph struct {
	Path   string
	Module string
	Graph  types.DependencyGraph
	Cycles [][]string // Mutually dependent symbol groups, self-loops included
}

// SaveOptions controls how Runner.Save writes a moved module.
type SaveOptions struct {
	Out         string // Destination file
	Overwrite   bool   // Replace an existing destination
	Commit      bool   // Commit the new module
	DirtyCommit bool   // With Commit, commit pending changes first instead of failing
}

// Runner executes refactoring requests against Python modules on disk.
type Runner struct {
	deps   Deps
	logger *slog.Logger
	cache  *lru.Cache[string, cachedTree]
}

// cachedTree is a parsed module and the file state it was parsed from.
type cachedTree struct {
	modTime time.Time
	size    int64
	tree    *types.SourceTree
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) (*Runner, error) {
	size := deps.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, cachedTree](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{deps: deps, logger: logger, cache: cache}, nil
}

// Load reads and parses a module. A cached tree is reused while the file's
// modification time and size are unchanged.
func (r *Runner) Load(ctx context.Context, path string) (*types.SourceTree, error) {
	path = r.abs(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if c, ok := r.cache.Get(path); ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		r.logger.Debug("parse cache hit", "path", path)
		return c.tree, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree, err := parser.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	r.cache.Add(path, cachedTree{modTime: info.ModTime(), size: info.Size(), tree: tree})
	r.logger.Debug("parsed module", "path", path, "statements", len(tree.Statements))
	return tree, nil
}

// Move extracts names from the module at path into one new module. The
// rendered output is parsed again before it is returned.
func (r *Runner) Move(ctx context.Context, path string, names []string) (*MoveResult, error) {
	if len(names) == 0 {
		return nil, errors.New("no symbols to move")
	}
	tree, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	table := ast.BuildSymbolTable(tree)
	origin := r.origin(path)
	r.logger.Debug("moving symbols", "path", path, "origin", origin, "names", names, "symbols", table.Len())

	moved, err := ast.MoveSymbols(table, origin, names)
	if err != nil {
		return nil, withSuggestion(err)
	}

	if importsFrom(moved, origin) && !parser.IsModuleName(ctx, origin) {
		return nil, fmt.Errorf("%w: %q is the origin of %s; set the origin module explicitly (--module)", ErrInvalidModuleName, origin, path)
	}

	src := ast.Render(moved)
	if _, err := parser.Parse(ctx, "<moved>", src); err != nil {
		return nil, fmt.Errorf("rendered module does not parse: %w", err)
	}
	r.logger.Debug("built module", "statements", len(moved.Statements), "bytes", len(src))

	return &MoveResult{
		Path:   r.abs(path),
		Origin: origin,
		Names:  append([]string(nil), names...),
		Tree:   moved,
		Source: src,
	}, nil
}

// Dependencies computes the dependency graph of the module at path.
func (r *Runner) Dependencies(ctx context.Context, path string) (*ModuleGraph, error) {
	tree, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.moduleGraph(path, r.origin(path), tree)
}

// DependenciesDir computes one dependency graph per module under dir. A
// relative dir is taken from WorkDir, as Move and Dependencies do.
// Modules that fail to parse or to analyze are reported in the returned
// errors and skipped; the rest are sorted by path.
func (r *Runner) DependenciesDir(ctx context.Context, dir string) ([]*ModuleGraph, []ast.ScanError, error) {
	dir = r.abs(dir)
	result, err := ast.ScanDir(ctx, dir, ast.ScanOptions{
		Concurrency: r.deps.Concurrency,
		Exclude:     r.deps.Exclude,
		Logger:      r.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	paths := make([]string, 0, len(result.Trees))
	for p := range result.Trees {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	failures := result.Errors
	graphs := make([]*ModuleGraph, 0, len(paths))
	for _, p := range paths {
		full := filepath.Join(dir, p)
		g, err := r.moduleGraph(full, gitpkg.ModuleName(full, r.workDir()), result.Trees[p])
		if err != nil {
			r.logger.Warn("skipping module", "path", p, "error", err)
			failures = append(failures, ast.ScanError{FilePath: p, Err: err})
			continue
		}
		graphs = append(graphs, g)
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].FilePath < failures[j].FilePath })
	return graphs, failures, nil
}

// moduleGraph analyzes one parsed module. The module override applies to
// single-module requests only, so directory scans name each module by path.
func (r *Runner) moduleGraph(path, module string, tree *types.SourceTree) (*ModuleGraph, error) {
	deps, err := ast.BuildDependencyGraph(ast.BuildSymbolTable(tree))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cycles, err := graph.Cycles(deps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ModuleGraph{Path: path, Module: module, Graph: deps, Cycles: cycles}, nil
}

// Preview returns a line diff from the current destination to the moved
// module. A missing destination diffs against empty content.
func (r *Runner) Preview(res *MoveResult, out string) (string, error) {
	old, err := os.ReadFile(r.abs(out))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", out, err)
	}
	return editor.Diff(string(old), string(res.Source)), nil
}

// Save writes the moved module to opts.Out and optionally commits it.
func (r *Runner) Save(ctx context.Context, res *MoveResult, opts SaveOptions) error {
	out := r.abs(opts.Out)

	var repo *gitpkg.Repo
	if opts.Commit {
		var err error
		repo, err = gitpkg.Open(gitpkg.Config{WorkDir: filepath.Dir(out), DirtyCommit: opts.DirtyCommit})
		if err != nil {
			return err
		}
		if err := repo.HandleDirty(); err != nil {
			return fmt.Errorf("handling dirty files: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	write := editor.Create
	if opts.Overwrite {
		write = editor.ReplaceFile
	}
	if err := write(out, res.Source); err != nil {
		return err
	}
	r.logger.Debug("wrote module", "path", out, "bytes", len(res.Source))

	if repo == nil {
		return nil
	}
	dest, err := repo.ModuleName(out)
	if err != nil {
		return err
	}
	rel, _ := filepath.Rel(repo.Root(), out)
	msg := gitpkg.MoveMessage(res.Names, res.Origin, dest, []string{filepath.ToSlash(rel)})
	if err := repo.Commit([]string{out}, msg); err != nil {
		return err
	}
	r.logger.Debug("committed move", "dest", dest)
	return nil
}

// Undo reverts the last move commit of the repository enclosing WorkDir.
func (r *Runner) Undo(ctx context.Context) error {
	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: r.workDir()})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return repo.Undo()
}

func (r *Runner) origin(path string) string {
	if r.deps.Module != "" {
		return r.deps.Module
	}
	return gitpkg.ModuleName(r.abs(path), r.workDir())
}

func (r *Runner) workDir() string {
	if r.deps.WorkDir == "" {
		return "."
	}
	return r.deps.WorkDir
}

func (r *Runner) abs(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workDir(), path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// importsFrom reports whether tree imports from module through a
// synthesized statement.
func importsFrom(tree *types.SourceTree, module string) bool {
	for _, stmt := range tree.Statements {
		if stmt.Kind == types.ImportFrom && stmt.Synthesized() && stmt.Module == module {
			return true
		}
	}
	return false
}

// withSuggestion adds the closest existing symbol to an unknown-symbol error.
func withSuggestion(err error) error {
	var unknown *ast.UnknownSymbolError
	if !errors.As(err, &unknown) {
		return err
	}
	if s := editor.Suggest(unknown.Name, unknown.Available, editor.DefaultSuggestThreshold); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}
