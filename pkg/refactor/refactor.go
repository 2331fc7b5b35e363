// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package refactor is the public interface of pysplit: it computes the
// direct dependencies of the top-level symbols of a Python module and
// moves symbols into new, self-importing modules.
package refactor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/petar-djukic/pysplit/internal/ast"
	"github.com/petar-djukic/pysplit/internal/parser"
	internal "github.com/petar-djukic/pysplit/internal/refactor"
	"github.com/petar-djukic/pysplit/pkg/types"
)

// Error types for the Refactorer API. Errors returned by a Refactorer wrap
// one of these where they apply; test with errors.Is.
var (
	ErrInvalidConfig         = errors.New("invalid config")
	ErrParseFailure          = parser.ErrSyntax
	ErrUnknownSymbol         = ast.ErrUnknownSymbol
	ErrUnsupportedDefinition = ast.ErrUnsupportedDefinition
	ErrInvalidModuleName     = internal.ErrInvalidModuleName
)

// UnknownSymbolError and UnsupportedDefinitionError carry the details of
// the matching sentinel; test with errors.As.
type (
	UnknownSymbolError         = ast.UnknownSymbolError
	UnsupportedDefinitionError = ast.UnsupportedDefinitionError
)

// Config configures a Refactorer instance.
type Config struct {
	WorkDir     string       // Base for relative paths (required)
	Module      string       // Origin module override; derived from the file path when empty
	CacheSize   int          // Parsed-module cache capacity (default 64)
	Exclude     []string     // Glob patterns skipped when scanning directories
	Concurrency int          // Parse workers for directory scans (default NumCPU)
	Logger      *slog.Logger // Defaults to slog.Default()
}

// MoveResult holds the module built by Refactorer.Move.
type MoveResult struct {
	Path   string   // Module the symbols were taken from
	Origin string   // Dotted module name used in synthesized imports
	Names  []string // Moved symbols, in request order
	Source string   // Rendered Python source of the new module
}

// ModuleGraph holds the dependency graph of one module.
type ModuleGraph struct {
	Path   string                `json:"path"`
	Module string                `json:"module"`
	Graph  types.DependencyGraph `json:"graph"`
	Cycles [][]string            `json:"cycles,omitempty"`
}

// ModuleError records a module that could not be analyzed.
type ModuleError struct {
	Path string
	Err  error
}

func (e ModuleError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e ModuleError) Unwrap() error { return e.Err }

// SaveOptions controls how Refactorer.Save writes a moved module.
type SaveOptions struct {
	Out         string // Destination file (required)
	Overwrite   bool   // Replace an existing destination
	Commit      bool   // Commit the new module to the enclosing git repository
	DirtyCommit bool   // With Commit, commit pending changes first instead of failing
}

// Refactorer analyzes and splits Python modules.
type Refactorer interface {
	// Move extracts the named top-level symbols of the module at path into
	// one new module. Dependencies on other symbols of the module are
	// imported from it; its imports are copied. Unknown names fail the
	// whole request.
	Move(ctx context.Context, path string, names []string) (*MoveResult, error)

	// Preview returns a line diff from the current content of out to the
	// moved module.
	Preview(res *MoveResult, out string) (string, error)

	// Save writes a moved module to disk and optionally commits it.
	Save(ctx context.Context, res *MoveResult, opts SaveOptions) error

	// Dependencies computes the dependency graph of a module.
	Dependencies(ctx context.Context, path string) (*ModuleGraph, error)

	// DependenciesDir computes the graph of every module under dir. Modules
	// that cannot be parsed or analyzed are returned as ModuleErrors.
	DependenciesDir(ctx context.Context, dir string) ([]*ModuleGraph, []ModuleError, error)

	// Undo reverts the last move commit.
	Undo(ctx context.Context) error
}
