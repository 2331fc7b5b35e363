// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package graph renders dependency graphs for inspection: Graphviz DOT
// output and import-cycle detection.
package graph

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/petar-djukic/pysplit/pkg/types"
)

const (
	colorDependent = "red"  // Symbols with at least one dependency
	colorLeaf      = "blue" // Symbols with none
)

// Build converts a DependencyGraph into a directed graph with one vertex
// per symbol and an edge from each symbol to every dependency. Self-loops
// are kept.
func Build(deps types.DependencyGraph) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	names := deps.Names()
	for _, name := range names {
		color := colorLeaf
		if len(deps[name]) > 0 {
			color = colorDependent
		}
		if err := g.AddVertex(name, graph.VertexAttribute("color", color)); err != nil {
			return nil, fmt.Errorf("adding symbol %s: %w", name, err)
		}
	}

	for _, name := range names {
		for _, dep := range deps[name].Sorted() {
			if err := g.AddEdge(name, dep); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("adding dependency %s -> %s: %w", name, dep, err)
			}
		}
	}
	return g, nil
}

// DOT writes the graph in Graphviz DOT format, laid out left to right.
func DOT(deps types.DependencyGraph, w io.Writer) error {
	g, err := Build(deps)
	if err != nil {
		return err
	}
	if err := draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return fmt.Errorf("rendering graph: %w", err)
	}
	return nil
}

// Cycles returns the groups of symbols that depend on each other, directly
// or through other symbols. A symbol that depends on itself forms a group
// of one. Each group is sorted, and groups are ordered by their first name.
func Cycles(deps types.DependencyGraph) ([][]string, error) {
	g, err := Build(deps)
	if err != nil {
		return nil, err
	}
	components, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("finding cycles: %w", err)
	}

	var cycles [][]string
	for _, c := range components {
		if len(c) == 1 && !deps[c[0]].Has(c[0]) {
			continue
		}
		sort.Strings(c)
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}
