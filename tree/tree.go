/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tree provides the design token tree: nested groups of tokens
// addressed by dotted paths, plus per-mode overrides.
package tree

import (
	"maps"
	"slices"
)

// ModesKey is the top-level key holding mode overrides.
const ModesKey = "modes"

// Node is either a *Group or a *Leaf.
type Node interface {
	isNode()
}

// Group is an intermediate node mapping keys to child nodes.
type Group struct {
	// Children maps keys to nested groups or leaves.
	Children map[string]Node
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{Children: make(map[string]Node)}
}

func (*Group) isNode() {}

// Keys returns the child keys in sorted order.
func (g *Group) Keys() []string {
	return slices.Sorted(maps.Keys(g.Children))
}

// Leaf is a token definition.
type Leaf struct {
	// Value is the token's own value, possibly a reference.
	Value Value

	// Type is the optional $type (or type) metadata.
	Type string

	// Description is the optional $description (or description) metadata.
	Description string

	// Meta holds every other key of a structured leaf. Resolution ignores it.
	Meta map[string]any
}

func (*Leaf) isNode() {}

// Entry pairs a leaf with its path.
type Entry struct {
	Path Path
	Leaf *Leaf
}

// Tree is an immutable token tree. Build one with Decode, FromMap or Merge
// and never modify it afterwards.
type Tree struct {
	root  *Group
	modes map[string]map[string]Value
	raw   map[string]any
}

// New assembles a tree from its parts. Nil parts are replaced by empty ones.
func New(root *Group, modes map[string]map[string]Value, raw map[string]any) *Tree {
	if root == nil {
		root = NewGroup()
	}
	if modes == nil {
		modes = map[string]map[string]Value{}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return &Tree{root: root, modes: modes, raw: raw}
}

// Root returns the root group.
func (t *Tree) Root() *Group { return t.root }

// Raw returns the decoded document the tree was built from. Callers must not
// modify it.
func (t *Tree) Raw() map[string]any { return t.raw }

// Modes returns the names of the modes that define overrides, sorted.
func (t *Tree) Modes() []string {
	return slices.Sorted(maps.Keys(t.modes))
}

// Override returns the override for path under mode, if one is defined.
func (t *Tree) Override(mode, path string) (Value, bool) {
	overrides, ok := t.modes[mode]
	if !ok {
		return Absent(), false
	}
	v, ok := overrides[path]
	return v, ok
}

// Overrides returns the override map for mode. Callers must not modify it.
func (t *Tree) Overrides(mode string) map[string]Value {
	return t.modes[mode]
}

// Lookup returns the node reached by descending one key per segment of the
// dotted path. Invalid paths, missing keys and descent through a leaf all
// report false.
func (t *Tree) Lookup(path string) (Node, bool) {
	p, ok := ParsePath(path)
	if !ok {
		return nil, false
	}
	return t.LookupPath(p)
}

// LookupPath is Lookup for an already split path.
func (t *Tree) LookupPath(p Path) (Node, bool) {
	if len(p) == 0 {
		return nil, false
	}
	var node Node = t.root
	for _, seg := range p {
		g, ok := node.(*Group)
		if !ok {
			return nil, false
		}
		child, ok := g.Children[seg]
		if !ok || child == nil {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Subtree returns a copy of the document data under p, for paths that name
// a group. Reference strings inside it are left as written.
func (t *Tree) Subtree(p Path) (map[string]any, bool) {
	node, ok := t.LookupPath(p)
	if !ok {
		return nil, false
	}
	if _, isGroup := node.(*Group); !isGroup {
		return nil, false
	}
	var cur any = t.raw
	for _, seg := range p {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	m, ok := cloneRaw(cur).(map[string]any)
	return m, ok
}

func cloneRaw(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneRaw(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneRaw(val)
		}
		return out
	default:
		return v
	}
}

// Leaves returns every leaf in the tree ordered by path.
func (t *Tree) Leaves() []Entry {
	var out []Entry
	collectLeaves(t.root, nil, &out)
	return out
}

func collectLeaves(g *Group, prefix Path, out *[]Entry) {
	for _, key := range g.Keys() {
		path := prefix.Child(key)
		switch n := g.Children[key].(type) {
		case *Leaf:
			*out = append(*out, Entry{Path: path, Leaf: n})
		case *Group:
			collectLeaves(n, path, out)
		}
	}
}
