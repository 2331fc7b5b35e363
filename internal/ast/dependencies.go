// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import "github.com/petar-djukic/pysplit/pkg/types"

// dependencyPolicy computes the direct dependencies of one symbol.
type dependencyPolicy func(table *SymbolTable, stmt *types.Statement) types.NameSet

var dependencyPolicies = map[types.StatementKind]dependencyPolicy{
	types.Import:     noDependencies,
	types.ImportFrom: noDependencies,
	types.FunctionDef: func(table *SymbolTable, stmt *types.Statement) types.NameSet {
		return Resolve(table, FunctionNames(stmt.Node))
	},
	types.ClassDef: func(table *SymbolTable, stmt *types.Statement) types.NameSet {
		return Resolve(table, ClassNames(stmt.Node))
	},
	types.Assignment: func(table *SymbolTable, stmt *types.Statement) types.NameSet {
		return Resolve(table, FunctionNames(assignmentValue(stmt)))
	},
}

func noDependencies(*SymbolTable, *types.Statement) types.NameSet {
	return types.NewNameSet()
}

// Resolve keeps the names that are symbols of the table.
func Resolve(table *SymbolTable, used types.NameSet) types.NameSet {
	deps := types.NewNameSet()
	for name := range used {
		if table.Has(name) {
			deps.Add(name)
		}
	}
	return deps
}

// BuildDependencyGraph computes the direct dependencies of every symbol in
// the table. Import symbols have none. A symbol whose defining statement
// has no policy aborts the whole computation with an
// UnsupportedDefinitionError. A function that calls itself depends on
// itself.
func BuildDependencyGraph(table *SymbolTable) (types.DependencyGraph, error) {
	graph := make(types.DependencyGraph, table.Len())
	for _, name := range table.Names() {
		stmt, _ := table.Lookup(name)
		policy, ok := dependencyPolicies[stmt.Kind]
		if !ok {
			return nil, &UnsupportedDefinitionError{Name: name, Kind: stmt.Kind}
		}
		graph[name] = policy(table, stmt)
	}
	return graph, nil
}
