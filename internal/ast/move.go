// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import "github.com/petar-djukic/pysplit/pkg/types"

// MoveSymbols extracts the branch of every requested name, in the order
// given, and merges them into one tree. The first unknown name aborts the
// whole request with an UnknownSymbolError and no tree.
func MoveSymbols(table *SymbolTable, origin string, names []string) (*types.SourceTree, error) {
	branches := make([]*types.SourceTree, 0, len(names))
	for _, name := range names {
		if !table.Has(name) {
			return nil, table.unknown(name)
		}
		stmts, err := Extract(table, name, origin)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &types.SourceTree{Statements: stmts})
	}
	return Merge(branches...), nil
}
