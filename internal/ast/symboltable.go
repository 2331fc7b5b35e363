// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"sort"

	"github.com/petar-djukic/pysplit/pkg/types"
)

// SymbolTable maps each module-scope name to the statement that defines it.
// Names keep the order in which they were first seen.
type SymbolTable struct {
	order   []string
	entries map[string]*types.Statement
	defined map[string]bool
}

// registrar records the names one kind of statement binds.
type registrar func(st *SymbolTable, stmt *types.Statement)

// registrars is filled in init: nested statements register recursively.
var registrars map[types.StatementKind]registrar

func init() {
	registrars = map[types.StatementKind]registrar{
		types.Import:      registerImport,
		types.ImportFrom:  registerImport,
		types.FunctionDef: registerDefinition,
		types.ClassDef:    registerDefinition,
		types.Assignment:  registerAssignment,
		types.Other:       registerReferences,
	}
}

// BuildSymbolTable scans the top-level statements of tree in source order.
//
// Imports, function and class definitions and assignment targets define
// names; a later definition replaces an earlier one. Any other identifier
// at module scope is an incidental reference: it is recorded against its
// statement only while the name is unbound, and a definition always
// replaces it regardless of which came first. Function and class bodies
// are separate scopes and are not scanned.
func BuildSymbolTable(tree *types.SourceTree) *SymbolTable {
	st := &SymbolTable{
		entries: make(map[string]*types.Statement),
		defined: make(map[string]bool),
	}
	for _, stmt := range tree.Statements {
		st.register(stmt)
	}
	return st
}

// Lookup returns the statement defining name.
func (st *SymbolTable) Lookup(name string) (*types.Statement, bool) {
	stmt, ok := st.entries[name]
	return stmt, ok
}

// Has reports whether name is in the table.
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.entries[name]
	return ok
}

// Names returns every name in first-seen order.
func (st *SymbolTable) Names() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// Sorted returns every name in lexicographic order.
func (st *SymbolTable) Sorted() []string {
	out := st.Names()
	sort.Strings(out)
	return out
}

// Len returns the number of names.
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// IsDefinition reports whether name is bound by a definition rather than
// only seen as an incidental reference.
func (st *SymbolTable) IsDefinition(name string) bool {
	return st.defined[name]
}

func (st *SymbolTable) unknown(name string) error {
	return &UnknownSymbolError{Name: name, Available: st.Sorted()}
}

func (st *SymbolTable) register(stmt *types.Statement) {
	registrars[stmt.Kind](st, stmt)
}

func (st *SymbolTable) define(name string, stmt *types.Statement) {
	if name == "" {
		return
	}
	if _, ok := st.entries[name]; !ok {
		st.order = append(st.order, name)
	}
	st.entries[name] = stmt
	st.defined[name] = true
}

func (st *SymbolTable) reference(name string, stmt *types.Statement) {
	if _, ok := st.entries[name]; ok {
		return
	}
	st.order = append(st.order, name)
	st.entries[name] = stmt
}

func registerImport(st *SymbolTable, stmt *types.Statement) {
	for _, n := range stmt.Names {
		st.define(n.Bound(), stmt)
	}
}

func registerDefinition(st *SymbolTable, stmt *types.Statement) {
	if name := stmt.Definition().ChildByField("name"); name != nil {
		st.define(name.Text, stmt)
	}
}

// registerAssignment defines every target of a (possibly chained)
// assignment. The right-hand side is not scanned.
func registerAssignment(st *SymbolTable, stmt *types.Statement) {
	for a := assignmentOf(stmt); a != nil && a.Type == "assignment"; a = a.ChildByField("right") {
		st.bindTarget(a.ChildByField("left"), stmt)
	}
}

func (st *SymbolTable) bindTarget(n *types.Node, stmt *types.Statement) {
	if n == nil {
		return
	}
	switch n.Type {
	case "identifier":
		st.define(n.Text, stmt)
	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern", "parenthesized_expression":
		for _, c := range n.Children {
			st.bindTarget(c, stmt)
		}
	default:
		// obj.attr = ..., obj[key] = ...: obj is used, not bound.
		st.walkModuleScope(n, stmt, nil)
	}
}

// registerReferences records the identifiers of a statement with no binding
// policy. Binding statements nested in its blocks register themselves.
func registerReferences(st *SymbolTable, stmt *types.Statement) {
	var nested map[*types.Node]*types.Statement
	if len(stmt.Nested) > 0 {
		nested = make(map[*types.Node]*types.Statement, len(stmt.Nested))
		for _, s := range stmt.Nested {
			nested[s.Node] = s
		}
	}
	st.walkModuleScope(stmt.Node, stmt, nested)
}

func (st *SymbolTable) walkModuleScope(n *types.Node, owner *types.Statement, nested map[*types.Node]*types.Statement) {
	if n == nil {
		return
	}
	if s, ok := nested[n]; ok {
		st.register(s)
		return
	}
	switch {
	case n.Type == "identifier":
		st.reference(n.Text, owner)
		return
	case opaqueTypes[n.Type], n.Type == "function_definition", n.Type == "class_definition", n.Type == "decorated_definition":
		return
	}
	label := labelFields[n.Type]
	for _, c := range n.Children {
		if label != "" && c.Field == label {
			continue
		}
		st.walkModuleScope(c, owner, nested)
	}
}

// assignmentOf returns the assignment node of an Assignment statement.
func assignmentOf(stmt *types.Statement) *types.Node {
	if stmt.Node == nil {
		return nil
	}
	if stmt.Node.Type == "assignment" {
		return stmt.Node
	}
	for _, c := range stmt.Node.Children {
		if c.Type == "assignment" {
			return c
		}
	}
	return nil
}

// assignmentValue returns the value expression of a possibly chained
// assignment: the right-hand side of its innermost link.
func assignmentValue(stmt *types.Statement) *types.Node {
	a := assignmentOf(stmt)
	for a != nil {
		right := a.ChildByField("right")
		if right == nil || right.Type != "assignment" {
			return right
		}
		a = right
	}
	return nil
}
