// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"sort"

	"github.com/petar-djukic/pysplit/pkg/types"
)

// Extract builds the branch of target: the statements a new module needs
// to hold target on its own.
//
// Every name the target uses that is a symbol of the table becomes a
// dependency. Import dependencies are copied verbatim, Imports first and
// then ImportFroms, each in source order. Every other dependency is
// imported from origin, one ImportFrom per origin with sorted names. A copy
// of the target comes last.
//
// Extraction is single-hop: dependencies of dependencies are not pulled in
// and must stay importable from origin. Names bound by the target statement
// itself are not imported.
func Extract(table *SymbolTable, target, origin string) ([]*types.Statement, error) {
	stmt, ok := table.Lookup(target)
	if !ok {
		return nil, table.unknown(target)
	}

	used := Resolve(table, SubtreeNames(stmt.Node))

	var imports, fromImports []*types.Statement
	copied := make(map[*types.Statement]bool)
	synthesized := make(map[string][]types.ImportName)

	for _, name := range used.Sorted() {
		dep, _ := table.Lookup(name)
		if dep == stmt {
			continue
		}
		switch dep.Kind {
		case types.Import, types.ImportFrom:
			if copied[dep] {
				continue
			}
			copied[dep] = true
			if dep.Kind == types.Import {
				imports = append(imports, dep)
			} else {
				fromImports = append(fromImports, dep)
			}
		default:
			synthesized[origin] = append(synthesized[origin], types.ImportName{Name: name})
		}
	}

	sortByPos(imports)
	sortByPos(fromImports)

	branch := make([]*types.Statement, 0, len(imports)+len(fromImports)+len(synthesized)+1)
	branch = append(branch, imports...)
	branch = append(branch, fromImports...)

	modules := make([]string, 0, len(synthesized))
	for m := range synthesized {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	for _, m := range modules {
		branch = append(branch, types.NewImportFrom(m, synthesized[m]))
	}

	return append(branch, stmt.Clone()), nil
}

func sortByPos(stmts []*types.Statement) {
	sort.SliceStable(stmts, func(i, j int) bool {
		return stmts[i].Pos() < stmts[j].Pos()
	})
}
