// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/pysplit/internal/parser"
	"github.com/petar-djukic/pysplit/pkg/types"
)

// parseModule parses Python source for a test.
func parseModule(t *testing.T, src string) *types.SourceTree {
	t.Helper()
	tree, err := parser.Parse(context.Background(), "mod.py", []byte(src))
	require.NoError(t, err)
	return tree
}

// firstNode returns the syntax node of the first statement, unwrapping
// decorators.
func firstNode(t *testing.T, src string) *types.Node {
	t.Helper()
	tree := parseModule(t, src)
	require.NotEmpty(t, tree.Statements)
	return tree.Statements[0].Definition()
}

func parseAll(t *testing.T, srcs ...string) []*types.SourceTree {
	t.Helper()
	trees := make([]*types.SourceTree, 0, len(srcs))
	for _, src := range srcs {
		trees = append(trees, parseModule(t, src))
	}
	return trees
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
