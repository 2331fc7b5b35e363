// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/pysplit/internal/graph"
	"github.com/petar-djukic/pysplit/pkg/refactor"
)

// newDepsCmd creates the "deps" command.
func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps PATH",
		Short: "Print the dependency graph of a module",
		Long: `Deps prints, for every top-level symbol of a module, the symbols of the
same module it directly uses. PATH may be a directory, in which case every
module under it is analyzed on its own.`,
		Args: cobra.ExactArgs(1),
		RunE: runDeps,
	}

	cmd.Flags().Bool("json", false, "Print JSON")
	cmd.Flags().Bool("draw", false, "Print Graphviz DOT")

	return cmd
}

// runDeps executes the dependency request.
func runDeps(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	draw, _ := cmd.Flags().GetBool("draw")
	if asJSON && draw {
		return fmt.Errorf("--json and --draw are mutually exclusive")
	}

	r, err := newRefactorer()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		graphs   []*refactor.ModuleGraph
		failures []refactor.ModuleError
	)
	path := args[0]
	if isDir(path) {
		graphs, failures, err = r.DependenciesDir(ctx, path)
	} else {
		var g *refactor.ModuleGraph
		g, err = r.Dependencies(ctx, path)
		graphs = []*refactor.ModuleGraph{g}
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch {
	case asJSON:
		err = printJSON(w, graphs)
	case draw:
		err = printDOT(w, graphs)
	default:
		printText(w, graphs)
	}
	if err != nil {
		return err
	}

	for _, f := range failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", f)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d module(s) could not be analyzed", len(failures))
	}
	return nil
}

// isDir reports whether path, taken from the configured workdir when
// relative, names a directory. The path itself is passed on unchanged.
func isDir(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(viper.GetString("workdir"), path)
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// printText writes "name: dep, dep" lines, sorted, one block per module.
func printText(w io.Writer, graphs []*refactor.ModuleGraph) {
	for i, g := range graphs {
		if len(graphs) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", g.Module)
		}
		for _, name := range g.Graph.Names() {
			fmt.Fprintf(w, "%s: %s\n", name, strings.Join(g.Graph[name].Sorted(), ", "))
		}
		for _, c := range g.Cycles {
			fmt.Fprintf(w, "cycle: %s\n", strings.Join(c, " -> "))
		}
	}
}

func printJSON(w io.Writer, graphs []*refactor.ModuleGraph) error {
	var v any = graphs
	if len(graphs) == 1 {
		v = graphs[0]
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func printDOT(w io.Writer, graphs []*refactor.ModuleGraph) error {
	for _, g := range graphs {
		if err := graph.DOT(g.Graph, w); err != nil {
			return fmt.Errorf("%s: %w", g.Module, err)
		}
	}
	return nil
}
