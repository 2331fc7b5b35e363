// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/pysplit/pkg/types"
)

func TestSubtreeNames(t *testing.T) {
	n := firstNode(t, `def f(a, b=DEFAULT):
    total = helper(a) + b
    return obj.attr(key=VALUE)
`)

	got := SubtreeNames(n)
	assert.Equal(t, []string{"DEFAULT", "VALUE", "a", "b", "helper", "obj", "total"}, got.Sorted(),
		"function name, attribute names and keyword names are not uses")
}

func TestSubtreeNamesSkipsImports(t *testing.T) {
	n := firstNode(t, `def f():
    import os
    from m import x
    global counter
    return os, x
`)

	assert.Equal(t, []string{"os", "x"}, SubtreeNames(n).Sorted())
}

func TestClassNames(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "parameters shadow enclosing scope",
			src: `class C:
    def m(self, x):
        return x + z
`,
			want: []string{"z"},
		},
		{
			name: "class attribute targets are not uses",
			src: `class C(Base):
    size = DEFAULT
    def m(self):
        return self.size
`,
			want: []string{"Base", "DEFAULT"},
		},
		{
			name: "names used before a function are preserved",
			src: `class C:
    x = y
    def m(self, y):
        return y
`,
			want: []string{"y"},
		},
		{
			name: "defaults and annotations are uses",
			src: `class C:
    def m(self, x: Kind = FALLBACK, *args, **kwargs) -> Result:
        return args, kwargs
`,
			want: []string{"FALLBACK", "Kind", "Result"},
		},
		{
			name: "decorators are uses",
			src: `@register
class C:
    @staticmethod
    def m():
        return helper()
`,
			want: []string{"helper", "register", "staticmethod"},
		},
		{
			name: "lambda parameters shadow",
			src: `class C:
    key = lambda item: item.name
`,
			want: []string{},
		},
		{
			name: "assignments inside methods are uses",
			src: `class C:
    def m(self):
        local = compute()
        return local
`,
			want: []string{"compute", "local"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseModule(t, tt.src)
			got := ClassNames(tree.Statements[0].Node)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestParameterNames(t *testing.T) {
	n := firstNode(t, "def f(a, b=1, *args, c, d=2, **kw):\n    pass\n")

	got := parameterNames(n)
	assert.Equal(t, types.NewNameSet("a", "b", "args", "kw"), got, "keyword-only parameters are excluded")
}

func TestParameterNamesKeywordSeparator(t *testing.T) {
	n := firstNode(t, "def f(a, *, b):\n    pass\n")

	assert.Equal(t, types.NewNameSet("a"), parameterNames(n))
}
