// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/pysplit/pkg/types"
)

func TestRender(t *testing.T) {
	tree := parseModule(t, `import os
import sys
X = 1
Y = 2
def f():
    pass
class C:
    pass
Z = 3
`)

	assert.Equal(t, `import os
import sys

X = 1
Y = 2


def f():
    pass


class C:
    pass


Z = 3
`, string(Render(tree)))
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render(&types.SourceTree{}))
}

func TestFormatStatement(t *testing.T) {
	tests := []struct {
		name string
		stmt *types.Statement
		want string
	}{
		{
			name: "synthesized import",
			stmt: &types.Statement{
				Kind:  types.Import,
				Names: []types.ImportName{{Name: "os.path"}, {Name: "numpy", Alias: "np"}},
			},
			want: "import os.path, numpy as np",
		},
		{
			name: "synthesized from import",
			stmt: types.NewImportFrom("m", []types.ImportName{{Name: "a"}, {Name: "b", Alias: "c"}}),
			want: "from m import a, b as c",
		},
		{
			name: "relative from import",
			stmt: types.NewImportFrom("..pkg", []types.ImportName{{Name: "x"}}),
			want: "from ..pkg import x",
		},
		{
			name: "parsed statement keeps its text",
			stmt: &types.Statement{Kind: types.Assignment, Node: &types.Node{}, Source: "x  =  1\n"},
			want: "x  =  1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatStatement(tt.stmt))
		})
	}
}
