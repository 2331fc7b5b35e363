// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/pysplit/pkg/refactor"
)

// newMoveCmd creates the "move" command.
func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move FILE NAME...",
		Short: "Move top-level symbols into a new module",
		Long: `Move builds a new module holding the named top-level symbols of FILE.
Imports the symbols use are copied; other symbols of FILE they use are
imported from it. The module is printed unless --out is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runMove,
	}

	cmd.Flags().StringP("out", "o", "", "Write the module to this file instead of printing it")
	cmd.Flags().Bool("diff", false, "Print a diff against the --out file instead of writing it")
	cmd.Flags().Bool("force", false, "Overwrite an existing --out file")
	cmd.Flags().Bool("commit", false, "Commit the written module")
	cmd.Flags().Bool("dirty-commit", false, "With --commit, commit pending changes first")

	return cmd
}

// runMove executes the move request.
func runMove(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	diff, _ := cmd.Flags().GetBool("diff")
	force, _ := cmd.Flags().GetBool("force")
	commit, _ := cmd.Flags().GetBool("commit")
	dirtyCommit, _ := cmd.Flags().GetBool("dirty-commit")

	if (diff || force || commit) && out == "" {
		return fmt.Errorf("--diff, --force and --commit need --out")
	}

	r, err := newRefactorer()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	res, err := r.Move(ctx, args[0], args[1:])
	if err != nil {
		return err
	}

	switch {
	case out == "":
		fmt.Fprint(cmd.OutOrStdout(), res.Source)
	case diff:
		patch, err := r.Preview(res, out)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), patch)
	default:
		err := r.Save(ctx, res, refactor.SaveOptions{
			Out:         out,
			Overwrite:   force,
			Commit:      commit,
			DirtyCommit: dirtyCommit,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Moved %d symbol(s) from %s to %s.\n", len(res.Names), res.Origin, out)
	}
	return nil
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last pysplit commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by move --commit. The moved module stays staged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRefactorer()
			if err != nil {
				return err
			}
			if err := r.Undo(cmd.Context()); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully reverted last pysplit commit.")
			return nil
		},
	}
}
