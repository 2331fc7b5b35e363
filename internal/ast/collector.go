// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import "github.com/petar-djukic/pysplit/pkg/types"

// labelFields maps a node type to the child field holding a name that the
// node binds or labels rather than uses.
var labelFields = map[string]string{
	"function_definition": "name",
	"class_definition":    "name",
	"attribute":           "attribute",
	"keyword_argument":    "name",
}

// opaqueTypes are statements whose identifiers are never name uses.
var opaqueTypes = map[string]bool{
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"global_statement":        true,
	"nonlocal_statement":      true,
}

// functionScopes are nodes whose parameters shadow names of the enclosing scope.
var functionScopes = map[string]bool{
	"function_definition": true,
	"lambda":              true,
}

// SubtreeNames returns every identifier referenced anywhere in n. Nothing
// is excluded: parameters and locals are reported and left for Resolve to
// filter against the symbol table.
func SubtreeNames(n *types.Node) types.NameSet {
	names := types.NewNameSet()
	collectNames(n, names)
	return names
}

// FunctionNames returns the names a function definition uses. A function
// body is one flat name-use set, so this is the subtree scan.
func FunctionNames(n *types.Node) types.NameSet {
	return SubtreeNames(n)
}

func collectNames(n *types.Node, names types.NameSet) {
	if n == nil || opaqueTypes[n.Type] {
		return
	}
	if n.Type == "identifier" {
		names.Add(n.Text)
		return
	}
	label := labelFields[n.Type]
	for _, c := range n.Children {
		if label != "" && c.Field == label {
			continue
		}
		collectNames(c, names)
	}
}

// ClassNames returns the names a class definition uses. Assignment targets
// in the class body bind class attributes and are not uses. Parameters of
// a nested function shadow the enclosing scope: a name is reported only if
// it is used somewhere other than as one of those parameters.
func ClassNames(n *types.Node) types.NameSet {
	return classFold(n, false)
}

// classFold returns the names used by n. Every call returns a fresh set;
// a function scope contributes its uses minus the names its parameters bind.
func classFold(n *types.Node, inFunction bool) types.NameSet {
	switch {
	case n == nil || opaqueTypes[n.Type]:
		return types.NewNameSet()
	case n.Type == "identifier":
		return types.NewNameSet(n.Text)
	case functionScopes[n.Type]:
		return foldChildren(n, true).Difference(parameterNames(n))
	case n.Type == "assignment" && !inFunction:
		used := classFold(n.ChildByField("right"), false)
		used.AddAll(classFold(n.ChildByField("type"), false))
		return used
	}
	return foldChildren(n, inFunction)
}

func foldChildren(n *types.Node, inFunction bool) types.NameSet {
	used := types.NewNameSet()
	label := labelFields[n.Type]
	for _, c := range n.Children {
		if label != "" && c.Field == label {
			continue
		}
		used.AddAll(classFold(c, inFunction))
	}
	return used
}

// parameterNames returns the positional, variadic-positional and
// variadic-keyword parameter names of a function or lambda. Keyword-only
// parameters (after "*" or "*args") are not included.
func parameterNames(fn *types.Node) types.NameSet {
	names := types.NewNameSet()
	params := fn.ChildByField("parameters")
	if params == nil {
		return names
	}
	keywordOnly := false
	for _, p := range params.Children {
		switch p.Type {
		case "identifier":
			if !keywordOnly {
				names.Add(p.Text)
			}
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByField("name"); !keywordOnly && name != nil && name.Type == "identifier" {
				names.Add(name.Text)
			}
		case "typed_parameter":
			for _, c := range p.Children {
				if c.Field == "type" {
					continue
				}
				switch c.Type {
				case "identifier":
					if !keywordOnly {
						names.Add(c.Text)
					}
				case "list_splat_pattern":
					names.Add(splatName(c))
					keywordOnly = true
				case "dictionary_splat_pattern":
					names.Add(splatName(c))
				}
			}
		case "list_splat_pattern":
			names.Add(splatName(p))
			keywordOnly = true
		case "dictionary_splat_pattern":
			names.Add(splatName(p))
		case "keyword_separator":
			keywordOnly = true
		}
	}
	delete(names, "")
	return names
}

func splatName(n *types.Node) string {
	for _, c := range n.Children {
		if c.Type == "identifier" {
			return c.Text
		}
	}
	return ""
}
