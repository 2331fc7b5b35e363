// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName     = "pysplit"
	authorEmail    = "noreply@pysplit"
	dirtyCommitMsg = "pysplit: save uncommitted changes before move"
)

// stageFunc adds paths to the index of wt before a commit.
type stageFunc func(wt *gogit.Worktree) error

// HandleDirty prepares the worktree for a move commit. A clean worktree is
// left alone. Pending changes are committed on their own when
// Config.DirtyCommit is set and rejected with ErrDirtyWorkTree otherwise.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil || !dirty {
		return err
	}
	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	stageAll := func(wt *gogit.Worktree) error {
		if _, err := wt.Add("."); err != nil {
			return fmt.Errorf("staging pending changes: %w", err)
		}
		return nil
	}
	if err := r.commit(dirtyCommitMsg, stageAll); err != nil {
		return fmt.Errorf("saving pending changes: %w", err)
	}
	return nil
}

// Commit stages only files and commits them with msg. Paths are absolute
// or relative to the worktree root; anything else in the worktree stays
// out of the commit.
func (r *Repo) Commit(files []string, msg string) error {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := r.relative(f)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
	}

	return r.commit(msg, func(wt *gogit.Worktree) error {
		for _, p := range paths {
			if _, err := wt.Add(p); err != nil {
				return fmt.Errorf("staging %s: %w", p, err)
			}
		}
		return nil
	})
}

// Undo drops the HEAD commit when it records a move. The reset is soft: the
// moved module stays in the working tree and in the index.
func (r *Repo) Undo() error {
	head, err := r.head()
	if err != nil {
		return fmt.Errorf("reading HEAD: %w", err)
	}
	if !hasMovedBy(head.Message) {
		return ErrNotPysplitCommit
	}
	if head.NumParents() == 0 {
		return fmt.Errorf("cannot undo %s: it is the initial commit", head.Hash.String()[:7])
	}

	parent, err := head.Parent(0)
	if err != nil {
		return fmt.Errorf("reading parent of %s: %w", head.Hash, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return fmt.Errorf("resetting to %s: %w", parent.Hash, err)
	}
	return nil
}

func (r *Repo) commit(msg string, stage stageFunc) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := stage(wt); err != nil {
		return err
	}

	sig := &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
	if _, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// head returns the commit HEAD points at.
func (r *Repo) head() (*object.Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	return r.repo.CommitObject(ref.Hash())
}

// relative turns path into a slash-separated path under the worktree root.
func (r *Repo) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, ok := within(r.root, path)
	if !ok {
		return "", fmt.Errorf("%s is outside the worktree %s", path, r.root)
	}
	return rel, nil
}
