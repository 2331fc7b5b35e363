// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package refactor

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/gobwas/glob"

	internal "github.com/petar-djukic/pysplit/internal/refactor"
)

const defaultCacheSize = 64

// New validates the config and returns a ready-to-use Refactorer.
func New(cfg Config) (Refactorer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	runner, err := internal.NewRunner(internal.Deps{
		Logger:      cfg.Logger,
		WorkDir:     cfg.WorkDir,
		Module:      cfg.Module,
		CacheSize:   cfg.CacheSize,
		Exclude:     cfg.Exclude,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &refactorAdapter{runner: runner}, nil
}

// refactorAdapter adapts internal/refactor.Runner to the public Refactorer interface.
type refactorAdapter struct {
	runner *internal.Runner
}

func (a *refactorAdapter) Move(ctx context.Context, path string, names []string) (*MoveResult, error) {
	ir, err := a.runner.Move(ctx, path, names)
	if err != nil {
		return nil, err
	}
	return &MoveResult{
		Path:   ir.Path,
		Origin: ir.Origin,
		Names:  ir.Names,
		Source: string(ir.Source),
	}, nil
}

func (a *refactorAdapter) Preview(res *MoveResult, out string) (string, error) {
	return a.runner.Preview(toInternal(res), out)
}

func (a *refactorAdapter) Save(ctx context.Context, res *MoveResult, opts SaveOptions) error {
	if opts.Out == "" {
		return fmt.Errorf("%w: Out is required", ErrInvalidConfig)
	}
	return a.runner.Save(ctx, toInternal(res), internal.SaveOptions{
		Out:         opts.Out,
		Overwrite:   opts.Overwrite,
		Commit:      opts.Commit,
		DirtyCommit: opts.DirtyCommit,
	})
}

func (a *refactorAdapter) Dependencies(ctx context.Context, path string) (*ModuleGraph, error) {
	g, err := a.runner.Dependencies(ctx, path)
	if err != nil {
		return nil, err
	}
	return fromInternal(g), nil
}

func (a *refactorAdapter) DependenciesDir(ctx context.Context, dir string) ([]*ModuleGraph, []ModuleError, error) {
	graphs, failures, err := a.runner.DependenciesDir(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*ModuleGraph, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, fromInternal(g))
	}
	var errs []ModuleError
	for _, f := range failures {
		errs = append(errs, ModuleError{Path: f.FilePath, Err: f.Err})
	}
	return out, errs, nil
}

func (a *refactorAdapter) Undo(ctx context.Context) error {
	return a.runner.Undo(ctx)
}

func toInternal(res *MoveResult) *internal.MoveResult {
	return &internal.MoveResult{
		Path:   res.Path,
		Origin: res.Origin,
		Names:  res.Names,
		Source: []byte(res.Source),
	}
}

func fromInternal(g *internal.ModuleGraph) *ModuleGraph {
	return &ModuleGraph{Path: g.Path, Module: g.Module, Graph: g.Graph, Cycles: g.Cycles}
}

// validateConfig checks that required fields are present and well formed.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("CacheSize must not be negative, got %d", cfg.CacheSize)
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	for _, p := range cfg.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("exclude pattern %q: %v", p, err)
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
}
