// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git locates the repository enclosing a Python module, derives
// dotted module names from worktree paths, and records moves as commits.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotPysplitCommit is returned when undo targets a commit pysplit did not make.
var ErrNotPysplitCommit = errors.New("not a pysplit commit")

// ErrNoGit is returned when the directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrDirtyWorkTree is returned when uncommitted changes exist and DirtyCommit is false.
var ErrDirtyWorkTree = errors.New("uncommitted changes exist")

// Config configures git integration behavior.
type Config struct {
	WorkDir     string // Any directory inside the repository
	DirtyCommit bool   // Commit pending changes before a move instead of failing
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
	cfg  Config
}

// Open opens the repository enclosing cfg.WorkDir, searching parent
// directories for .git. Returns ErrNoGit if there is none.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root(), cfg: cfg}, nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string {
	return r.root
}

// ModuleName returns the dotted module name of a file inside the worktree.
func (r *Repo) ModuleName(path string) (string, error) {
	name, ok := moduleName(path, r.root)
	if !ok {
		return "", fmt.Errorf("%s is outside the worktree %s", path, r.root)
	}
	return name, nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// IsPysplitCommit reports whether the HEAD commit records a move.
func (r *Repo) IsPysplitCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, fmt.Errorf("reading HEAD: %w", err)
	}
	return hasMovedBy(msg), nil
}

func (r *Repo) lastCommitMessage() (string, error) {
	c, err := r.head()
	if err != nil {
		return "", err
	}
	return c.Message, nil
}

// commitCount returns the total number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}

// ModuleName returns the dotted module name of a Python file: its path
// relative to the enclosing git worktree, or to fallbackRoot when the file
// is not in a repository, with ".py" stripped and "__init__" collapsed into
// its package. A file outside both resolves to its bare stem.
func ModuleName(path, fallbackRoot string) string {
	if repo, err := Open(Config{WorkDir: filepath.Dir(path)}); err == nil {
		if name, ok := moduleName(path, repo.root); ok {
			return name
		}
	}
	if fallbackRoot != "" {
		if name, ok := moduleName(path, fallbackRoot); ok {
			return name
		}
	}
	return strings.TrimSuffix(filepath.Base(path), ".py")
}

func moduleName(path, root string) (string, bool) {
	rel, ok := within(root, path)
	if !ok || rel == "." {
		return "", false
	}
	parts := strings.Split(strings.TrimSuffix(rel, ".py"), "/")
	if n := len(parts); n > 1 && parts[n-1] == "__init__" {
		parts = parts[:n-1]
	}
	return strings.Join(parts, "."), true
}

// within returns path relative to root in slash form, and false when path
// lies outside root.
func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(resolve(root), resolve(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// resolve returns an absolute, symlink-free form of path. The file itself,
// and any of its parent directories, may not exist yet.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rest := ""
	for dir := abs; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		if filepath.Dir(dir) == dir {
			return abs
		}
		rest = filepath.Join(filepath.Base(dir), rest)
	}
}
