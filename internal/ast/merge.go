// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"sort"

	"github.com/petar-djukic/pysplit/pkg/types"
)

// Merge combines trees into one, overlaying their symbol tables in
// argument order. A later binding replaces an earlier one, except that an
// import never displaces a definition: a symbol moved together with one
// that imports it ends up defined, not imported. Incidental references
// only bind names nothing else binds.
//
// The result holds the Import statements first, then one ImportFrom per
// origin module with de-duplicated names sorted by the name they bind,
// then the remaining definitions in the order their names last appeared.
// No name is bound twice.
func Merge(trees ...*types.SourceTree) *types.SourceTree {
	o := &overlay{
		entries: make(map[string]*types.Statement),
		defined: make(map[string]bool),
		seq:     make(map[string]int),
	}
	for _, tree := range trees {
		table := BuildSymbolTable(tree)
		for _, name := range table.Names() {
			stmt, _ := table.Lookup(name)
			o.set(name, stmt, table.IsDefinition(name))
		}
	}
	return o.tree()
}

// overlay is an ordered name->statement mapping where re-setting a name
// moves it to the end.
type overlay struct {
	entries map[string]*types.Statement
	defined map[string]bool
	seq     map[string]int
	next    int
}

func (o *overlay) set(name string, stmt *types.Statement, definition bool) {
	if prev, ok := o.entries[name]; ok {
		if !definition || (o.defined[name] && !prev.IsImport() && stmt.IsImport()) {
			return
		}
	}
	o.entries[name] = stmt
	o.defined[name] = definition
	o.seq[name] = o.next
	o.next++
}

func (o *overlay) names() []string {
	out := make([]string, 0, len(o.entries))
	for n := range o.entries {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return o.seq[out[i]] < o.seq[out[j]] })
	return out
}

func (o *overlay) tree() *types.SourceTree {
	var (
		imports []*types.Statement
		defs    []*types.Statement
		groups  []*importGroup
	)
	seen := make(map[*types.Statement]bool)
	byModule := make(map[string]*importGroup)

	for _, name := range o.names() {
		stmt := o.entries[name]
		switch stmt.Kind {
		case types.Import:
			if !seen[stmt] {
				seen[stmt] = true
				imports = append(imports, stmt)
			}
		case types.ImportFrom:
			g, ok := byModule[stmt.Module]
			if !ok {
				g = &importGroup{module: stmt.Module, names: make(map[string]types.ImportName)}
				byModule[stmt.Module] = g
				groups = append(groups, g)
			}
			g.add(name, stmt)
		default:
			if !seen[stmt] {
				seen[stmt] = true
				defs = append(defs, stmt)
			}
		}
	}

	out := &types.SourceTree{}
	for _, stmt := range imports {
		out.Statements = append(out.Statements, o.surviving(stmt))
	}
	for _, g := range groups {
		out.Statements = append(out.Statements, g.statement())
	}
	out.Statements = append(out.Statements, defs...)
	return out
}

// surviving returns stmt, or a synthesized Import without the names a
// later binding took over.
func (o *overlay) surviving(stmt *types.Statement) *types.Statement {
	kept := make([]types.ImportName, 0, len(stmt.Names))
	for _, n := range stmt.Names {
		if o.entries[n.Bound()] == stmt {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(stmt.Names) {
		return stmt
	}
	return types.NewImport(kept)
}

// importGroup collects the names imported from one origin module.
type importGroup struct {
	module  string
	names   map[string]types.ImportName // keyed by bound name
	sources []*types.Statement
}

func (g *importGroup) add(bound string, stmt *types.Statement) {
	for _, n := range stmt.Names {
		if n.Bound() == bound {
			g.names[bound] = n
			break
		}
	}
	for _, s := range g.sources {
		if s == stmt {
			return
		}
	}
	g.sources = append(g.sources, stmt)
}

// statement returns the single ImportFrom for the group. A lone source
// statement binding exactly the merged names is passed through unchanged.
func (g *importGroup) statement() *types.Statement {
	if len(g.sources) == 1 && bindsExactly(g.sources[0], g.names) {
		return g.sources[0]
	}
	if wildcard, ok := g.names["*"]; ok {
		return types.NewImportFrom(g.module, []types.ImportName{wildcard})
	}
	bound := make([]string, 0, len(g.names))
	for b := range g.names {
		bound = append(bound, b)
	}
	sort.Strings(bound)
	names := make([]types.ImportName, 0, len(bound))
	for _, b := range bound {
		names = append(names, g.names[b])
	}
	return types.NewImportFrom(g.module, names)
}

func bindsExactly(stmt *types.Statement, names map[string]types.ImportName) bool {
	if len(stmt.Names) != len(names) {
		return false
	}
	for _, n := range stmt.Names {
		if _, ok := names[n.Bound()]; !ok {
			return false
		}
	}
	return true
}
