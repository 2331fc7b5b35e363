// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/pysplit/pkg/types"
)

func parse(t *testing.T, src string) *types.SourceTree {
	t.Helper()
	tree, err := Parse(context.Background(), "test.py", []byte(src))
	require.NoError(t, err)
	return tree
}

func TestParseKinds(t *testing.T) {
	tree := parse(t, `import os
from typing import List
def f():
    pass
class C:
    pass
x = 1
print(x)
@decorator
def g():
    pass
`)

	kinds := make([]types.StatementKind, 0, len(tree.Statements))
	for _, s := range tree.Statements {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []types.StatementKind{
		types.Import,
		types.ImportFrom,
		types.FunctionDef,
		types.ClassDef,
		types.Assignment,
		types.Other,
		types.FunctionDef,
	}, kinds)
	assert.Equal(t, "test.py", tree.Path)
}

func TestParseSource(t *testing.T) {
	tree := parse(t, "# header\nimport os\n\n\ndef f():\n    return os.getcwd()\n")

	require.Len(t, tree.Statements, 2, "comments are not statements")
	assert.Equal(t, "import os", tree.Statements[0].Source)
	assert.Equal(t, "def f():\n    return os.getcwd()", tree.Statements[1].Source)
	assert.Equal(t, 5, tree.Statements[1].Node.Line)
	assert.False(t, tree.Statements[1].Synthesized())
}

func TestParseDecorated(t *testing.T) {
	tree := parse(t, "@cache\ndef g():\n    pass\n")

	require.Len(t, tree.Statements, 1)
	stmt := tree.Statements[0]
	assert.Equal(t, "decorated_definition", stmt.Node.Type)
	def := stmt.Definition()
	require.NotNil(t, def)
	assert.Equal(t, "function_definition", def.Type)
	assert.Equal(t, "g", def.ChildByField("name").Text)
	assert.Equal(t, "@cache\ndef g():\n    pass", stmt.Source)
}

func TestParseImportNames(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		module string
		names  []types.ImportName
		bound  []string
	}{
		{
			name:  "plain and aliased",
			src:   "import os.path, numpy as np\n",
			names: []types.ImportName{{Name: "os.path"}, {Name: "numpy", Alias: "np"}},
			bound: []string{"os", "np"},
		},
		{
			name:   "from import",
			src:    "from collections import OrderedDict, defaultdict as dd\n",
			module: "collections",
			names:  []types.ImportName{{Name: "OrderedDict"}, {Name: "defaultdict", Alias: "dd"}},
			bound:  []string{"OrderedDict", "dd"},
		},
		{
			name:   "relative",
			src:    "from ..pkg.mod import helper\n",
			module: "..pkg.mod",
			names:  []types.ImportName{{Name: "helper"}},
			bound:  []string{"helper"},
		},
		{
			name:   "bare relative",
			src:    "from . import sibling\n",
			module: ".",
			names:  []types.ImportName{{Name: "sibling"}},
			bound:  []string{"sibling"},
		},
		{
			name:   "parenthesized",
			src:    "from m import (\n    a,\n    b,\n)\n",
			module: "m",
			names:  []types.ImportName{{Name: "a"}, {Name: "b"}},
			bound:  []string{"a", "b"},
		},
		{
			name:   "wildcard",
			src:    "from m import *\n",
			module: "m",
			names:  []types.ImportName{{Name: "*"}},
			bound:  []string{"*"},
		},
		{
			name:   "future",
			src:    "from __future__ import annotations\n",
			module: "__future__",
			names:  []types.ImportName{{Name: "annotations"}},
			bound:  []string{"annotations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			require.Len(t, tree.Statements, 1)
			stmt := tree.Statements[0]
			assert.True(t, stmt.IsImport())
			assert.Equal(t, tt.module, stmt.Module)
			assert.Equal(t, tt.names, stmt.Names)
			var bound []string
			for _, n := range stmt.Names {
				bound = append(bound, n.Bound())
			}
			assert.Equal(t, tt.bound, bound)
		})
	}
}

func TestParseNested(t *testing.T) {
	tree := parse(t, `try:
    import json
except ImportError:
    json = None
`)

	require.Len(t, tree.Statements, 1)
	stmt := tree.Statements[0]
	assert.Equal(t, types.Other, stmt.Kind)
	require.Len(t, stmt.Nested, 2)
	assert.Equal(t, types.Import, stmt.Nested[0].Kind)
	assert.Equal(t, "import json", stmt.Nested[0].Source)
	assert.Equal(t, types.Assignment, stmt.Nested[1].Kind)
	assert.Equal(t, "json = None", stmt.Nested[1].Source)
}

func TestParseNestedDedent(t *testing.T) {
	tree := parse(t, `if True:
    def f():
        return 1
`)

	require.Len(t, tree.Statements, 1)
	require.Len(t, tree.Statements[0].Nested, 1)
	nested := tree.Statements[0].Nested[0]
	assert.Equal(t, types.FunctionDef, nested.Kind)
	assert.Equal(t, "def f():\n    return 1", nested.Source)
}

func TestParseNestedSkipsFunctionBodies(t *testing.T) {
	tree := parse(t, `def f():
    import os
    return os
`)

	require.Len(t, tree.Statements, 1)
	assert.Empty(t, tree.Statements[0].Nested)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "bad.py", []byte("x = 1\ndef f(:\n    pass\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "bad.py:")
}

func TestParseEmpty(t *testing.T) {
	tree := parse(t, "")
	assert.Empty(t, tree.Statements)
}

func TestStatementClone(t *testing.T) {
	tree := parse(t, "try:\n    import json\nexcept ImportError:\n    pass\n")
	stmt := tree.Statements[0]

	clone := stmt.Clone()
	require.NotSame(t, stmt.Node, clone.Node)
	require.Len(t, clone.Nested, 1)
	assert.NotSame(t, stmt.Nested[0], clone.Nested[0])

	var found bool
	clone.Node.Walk(func(n *types.Node) bool {
		if n == clone.Nested[0].Node {
			found = true
		}
		return true
	})
	assert.True(t, found, "nested statements of a clone point into the cloned subtree")
}

func TestIsModuleName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"core", true},
		{"app.core", true},
		{"_private.mod2", true},
		{".", true},
		{"..pkg.mod", true},
		{"", false},
		{"my-mod", false},
		{"app..core", false},
		{"app.core.", false},
		{"2fast", false},
		{"class", false},
		{"a as b", false},
		{"os\nimport sys", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsModuleName(context.Background(), tt.name))
		})
	}
}
