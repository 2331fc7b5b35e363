// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across pysplit packages.
package types

// Node is a named syntax node of a parsed module. Anonymous tokens and
// comments are not kept. Leaves carry their source text.
type Node struct {
	Type     string  // Grammar node type, e.g. "identifier" or "function_definition"
	Field    string  // Field this node occupies in its parent ("name", "body"), if any
	Text     string  // Source text; set for leaves only
	Start    int     // Byte offset of the first byte
	End      int     // Byte offset one past the last byte
	Line     int     // Start line (1-based)
	Column   int     // Start column (0-based, in bytes)
	Children []*Node // Named children in source order
}

// ChildByField returns the first child occupying the given field, or nil.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child occupying the given field.
func (n *Node) ChildrenByField(field string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants in pre-order. Children of a node are
// skipped when fn returns false for it.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	return n.cloneInto(nil)
}

// cloneInto deep-copies n, recording original->copy in copies when non-nil.
func (n *Node) cloneInto(copies map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.cloneInto(copies)
		}
	}
	if copies != nil {
		copies[n] = &out
	}
	return &out
}
