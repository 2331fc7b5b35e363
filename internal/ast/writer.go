// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"strings"

	"github.com/petar-djukic/pysplit/pkg/types"
)

// Render prints tree as Python source. Parsed statements keep their
// original text; synthesized imports are printed in canonical form.
// Imports are grouped, and top-level functions and classes are separated
// by two blank lines.
func Render(tree *types.SourceTree) []byte {
	var b strings.Builder
	var prev *types.Statement
	for _, stmt := range tree.Statements {
		if prev != nil {
			b.WriteString(separator(prev, stmt))
		}
		b.WriteString(FormatStatement(stmt))
		prev = stmt
	}
	if prev != nil {
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// FormatStatement prints one statement.
func FormatStatement(stmt *types.Statement) string {
	if !stmt.Synthesized() {
		return strings.TrimRight(stmt.Source, " \t\n")
	}
	names := make([]string, len(stmt.Names))
	for i, n := range stmt.Names {
		names[i] = n.String()
	}
	switch stmt.Kind {
	case types.Import:
		return "import " + strings.Join(names, ", ")
	case types.ImportFrom:
		return "from " + stmt.Module + " import " + strings.Join(names, ", ")
	}
	return ""
}

func separator(prev, next *types.Statement) string {
	switch {
	case prev.IsImport() && next.IsImport():
		return "\n"
	case isDefinition(prev) || isDefinition(next):
		return "\n\n\n"
	case prev.IsImport() != next.IsImport():
		return "\n\n"
	}
	return "\n"
}

func isDefinition(stmt *types.Statement) bool {
	return stmt.Kind == types.FunctionDef || stmt.Kind == types.ClassDef
}
