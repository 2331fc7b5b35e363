// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parser turns Python source into a types.SourceTree using
// tree-sitter. It is the only package that knows about tree-sitter nodes.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/petar-djukic/pysplit/pkg/types"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// compoundTypes are statements whose blocks still execute at module scope.
var compoundTypes = map[string]bool{
	"if_statement":    true,
	"elif_clause":     true,
	"else_clause":     true,
	"try_statement":   true,
	"except_clause":   true,
	"finally_clause":  true,
	"with_statement":  true,
	"for_statement":   true,
	"while_statement": true,
	"block":           true,
}

// Parse parses a Python module. Comments are dropped; every other named
// node is kept with its field name and position.
func Parse(ctx context.Context, path string, src []byte) (*types.SourceTree, error) {
	root, err := sitter.ParseCtx(ctx, src, python.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if root == nil {
		return nil, fmt.Errorf("parsing %s: empty tree", path)
	}
	if root.HasError() {
		p := firstError(root)
		return nil, fmt.Errorf("%w: %s:%d:%d", ErrSyntax, path, p.Row+1, p.Column+1)
	}

	module := convert(root, "", src)
	tree := &types.SourceTree{Path: path}
	for _, n := range module.Children {
		tree.Statements = append(tree.Statements, newStatement(n, src))
	}
	return tree, nil
}

// convert copies the named part of a tree-sitter subtree.
func convert(n *sitter.Node, field string, src []byte) *types.Node {
	start := n.StartPoint()
	out := &types.Node{
		Type:   n.Type(),
		Field:  field,
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Line:   int(start.Row) + 1,
		Column: int(start.Column),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() || c.Type() == "comment" {
			continue
		}
		out.Children = append(out.Children, convert(c, n.FieldNameForChild(i), src))
	}
	if len(out.Children) == 0 {
		out.Text = n.Content(src)
	}
	return out
}

// firstError locates the first error or missing node.
func firstError(n *sitter.Node) sitter.Point {
	if n.IsError() || n.IsMissing() {
		return n.StartPoint()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && (c.HasError() || c.IsMissing()) {
			return firstError(c)
		}
	}
	return n.StartPoint()
}

// newStatement classifies a module-scope node and attaches import data.
func newStatement(n *types.Node, src []byte) *types.Statement {
	st := &types.Statement{
		Kind:   KindOf(n),
		Node:   n,
		Source: dedent(string(src[n.Start:n.End]), n.Column),
	}
	switch st.Kind {
	case types.Import:
		st.Names = importNames(n)
	case types.ImportFrom:
		st.Module, st.Names = fromImport(n)
	case types.Other:
		st.Nested = nested(n, src)
	}
	return st
}

// KindOf returns the statement kind of a module-scope node.
func KindOf(n *types.Node) types.StatementKind {
	switch n.Type {
	case "import_statement":
		return types.Import
	case "import_from_statement", "future_import_statement":
		return types.ImportFrom
	case "function_definition":
		return types.FunctionDef
	case "class_definition":
		return types.ClassDef
	case "decorated_definition":
		if def := n.ChildByField("definition"); def != nil {
			return KindOf(def)
		}
	case "expression_statement":
		if len(n.Children) == 1 && n.Children[0].Type == "assignment" {
			return types.Assignment
		}
	}
	return types.Other
}

// nested collects the binding statements found in the blocks of a compound
// statement. Function and class bodies are separate scopes and are not entered.
func nested(n *types.Node, src []byte) []*types.Statement {
	if !compoundTypes[n.Type] {
		return nil
	}
	var out []*types.Statement
	for _, c := range n.Children {
		if KindOf(c) != types.Other {
			out = append(out, newStatement(c, src))
			continue
		}
		if compoundTypes[c.Type] {
			out = append(out, nested(c, src)...)
		}
	}
	return out
}

// importNames reads the aliases of "import a.b, c as d".
func importNames(n *types.Node) []types.ImportName {
	var names []types.ImportName
	for _, c := range n.ChildrenByField("name") {
		names = append(names, importName(c))
	}
	return names
}

// fromImport reads the origin module and aliases of "from m import ...".
func fromImport(n *types.Node) (string, []types.ImportName) {
	module := "__future__"
	if m := n.ChildByField("module_name"); m != nil {
		module = dottedText(m)
	}
	var names []types.ImportName
	for _, c := range n.Children {
		switch {
		case c.Type == "wildcard_import":
			names = append(names, types.ImportName{Name: "*"})
		case c.Field == "name":
			names = append(names, importName(c))
		}
	}
	return module, names
}

func importName(n *types.Node) types.ImportName {
	if n.Type == "aliased_import" {
		return types.ImportName{
			Name:  dottedText(n.ChildByField("name")),
			Alias: dottedText(n.ChildByField("alias")),
		}
	}
	return types.ImportName{Name: dottedText(n)}
}

// dottedText renders identifiers, dotted names and relative imports.
func dottedText(n *types.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case "dotted_name":
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, c.Text)
		}
		return strings.Join(parts, ".")
	case "relative_import":
		var b strings.Builder
		for _, c := range n.Children {
			if c.Type == "import_prefix" {
				b.WriteString(strings.TrimSpace(c.Text))
			} else {
				b.WriteString(dottedText(c))
			}
		}
		return b.String()
	}
	return n.Text
}

// dedent strips the first line's column of indentation from the lines
// after it, so a nested statement renders at column 0.
func dedent(text string, column int) string {
	if column == 0 || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		strip := 0
		for strip < column && strip < len(line) && (line[strip] == ' ' || line[strip] == '\t') {
			strip++
		}
		lines[i] = line[strip:]
	}
	return strings.Join(lines, "\n")
}

// IsModuleName reports whether name can follow "from" in an import: a
// dotted name, optionally led by relative-import dots.
func IsModuleName(ctx context.Context, name string) bool {
	dotted := strings.TrimLeft(name, ".")
	if dotted == "" {
		return name != ""
	}
	if strings.ContainsFunc(dotted, func(r rune) bool {
		return r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		return false
	}
	tree, err := Parse(ctx, "<module name>", []byte("import "+dotted+"\n"))
	if err != nil || len(tree.Statements) != 1 {
		return false
	}
	stmt := tree.Statements[0]
	return stmt.Kind == types.Import && len(stmt.Names) == 1 && stmt.Names[0] == types.ImportName{Name: dotted}
}
