// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "strings"

// StatementKind identifies the category of a top-level statement.
type StatementKind int

const (
	Other       StatementKind = iota // Any statement without a binding policy
	Import                           // import a, b as c
	ImportFrom                       // from m import a, b as c
	FunctionDef                      // def f(): ...
	ClassDef                         // class C: ...
	Assignment                       // a = b = value
)

// String returns the human-readable name of the statement kind.
func (k StatementKind) String() string {
	switch k {
	case Import:
		return "Import"
	case ImportFrom:
		return "ImportFrom"
	case FunctionDef:
		return "FunctionDef"
	case ClassDef:
		return "ClassDef"
	case Assignment:
		return "Assignment"
	default:
		return "Other"
	}
}

// ImportName is one imported alias of an import statement.
type ImportName struct {
	Name  string // Imported name as written, e.g. "os.path"
	Alias string // Name after "as", empty if none
}

// Bound returns the name the import binds in the importing module: the
// alias if present, otherwise the first component of a dotted name.
func (n ImportName) Bound() string {
	if n.Alias != "" {
		return n.Alias
	}
	if i := strings.IndexByte(n.Name, '.'); i >= 0 {
		return n.Name[:i]
	}
	return n.Name
}

// String renders the alias the way it appears in an import statement.
func (n ImportName) String() string {
	if n.Alias != "" {
		return n.Name + " as " + n.Alias
	}
	return n.Name
}

// Statement is a module-scope statement. Parsed statements keep their
// syntax subtree and original text; synthesized ones carry only import data.
type Statement struct {
	Kind   StatementKind
	Node   *Node        // Syntax subtree; nil when synthesized
	Source string       // Original text, dedented to column 0; empty when synthesized
	Module string       // Origin module of an ImportFrom, relative dots included
	Names  []ImportName // Aliases of an Import or ImportFrom
	Nested []*Statement // Module-scope statements inside a compound statement
}

// NewImport synthesizes "import names...".
func NewImport(names []ImportName) *Statement {
	return &Statement{
		Kind:  Import,
		Names: append([]ImportName(nil), names...),
	}
}

// NewImportFrom synthesizes "from module import names...".
func NewImportFrom(module string, names []ImportName) *Statement {
	return &Statement{
		Kind:   ImportFrom,
		Module: module,
		Names:  append([]ImportName(nil), names...),
	}
}

// Synthesized reports whether the statement was built rather than parsed.
func (s *Statement) Synthesized() bool {
	return s.Node == nil
}

// IsImport reports whether the statement is an Import or ImportFrom.
func (s *Statement) IsImport() bool {
	return s.Kind == Import || s.Kind == ImportFrom
}

// Pos returns the byte offset of the statement in its source module.
// Synthesized statements sort after every parsed one.
func (s *Statement) Pos() int {
	if s.Node == nil {
		return int(^uint(0) >> 1)
	}
	return s.Node.Start
}

// Definition returns the function or class node of a definition,
// unwrapping decorators.
func (s *Statement) Definition() *Node {
	if s.Node == nil {
		return nil
	}
	if s.Node.Type == "decorated_definition" {
		return s.Node.ChildByField("definition")
	}
	return s.Node
}

// Clone returns a deep copy sharing nothing with s. Nested statements of
// the copy point into the copied subtree.
func (s *Statement) Clone() *Statement {
	copies := make(map[*Node]*Node)
	out := *s
	out.Node = s.Node.cloneInto(copies)
	out.Names = append([]ImportName(nil), s.Names...)
	out.Nested = nil
	for _, n := range s.Nested {
		c := *n
		if node, ok := copies[n.Node]; ok {
			c.Node = node
		} else {
			c.Node = n.Node.Clone()
		}
		c.Names = append([]ImportName(nil), n.Names...)
		c.Nested = nil
		out.Nested = append(out.Nested, &c)
	}
	return &out
}

// SourceTree is the ordered sequence of top-level statements of one module.
type SourceTree struct {
	Path       string       // File the module was read from; empty for built trees
	Statements []*Statement // Top-level statements in source order
}
