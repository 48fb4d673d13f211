/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver resolves dotted token paths to terminal values,
// following references and honoring mode overrides.
package resolver

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"bennypowers.dev/tokenref/tree"
)

// Resolver answers token queries against one immutable tree.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	tree *tree.Tree
}

// New creates a resolver over t.
func New(t *tree.Tree) *Resolver {
	if t == nil {
		t = tree.New(nil, nil, nil)
	}
	return &Resolver{tree: t}
}

// Tree returns the tree this resolver reads.
func (r *Resolver) Tree() *tree.Tree {
	return r.tree
}

// Resolution describes how a query was answered.
type Resolution struct {
	// Value is the terminal value, or absent.
	Value tree.Value

	// Chain lists the paths visited, starting with the queried path.
	Chain []string

	// Mode is set when a mode override answered the query.
	Mode string
}

// Resolve returns the terminal value for path. A non-empty mode consults
// that mode's overrides first. A path or reference naming a group yields
// the group's data as a composite value, with nested references left as
// written. Paths that do not exist and dangling references yield an absent
// value and no error; only a circular reference is an error.
func (r *Resolver) Resolve(path, mode string) (tree.Value, error) {
	res, err := r.Trace(path, mode)
	return res.Value, err
}

// Trace is Resolve that also reports the reference chain it followed.
func (r *Resolver) Trace(path, mode string) (Resolution, error) {
	if mode != "" {
		// Override values are returned as they are; they are never resolved.
		if v, ok := r.tree.Override(mode, path); ok && v.IsTruthy() {
			return Resolution{Value: v, Chain: []string{path}, Mode: mode}, nil
		}
	}
	node, found := r.tree.Lookup(path)
	return r.follow(path, node, found)
}

// follow walks the reference chain starting at node, remembering every
// path it has seen so a revisit ends the walk with a CycleError.
func (r *Resolver) follow(path string, node tree.Node, found bool) (Resolution, error) {
	var res Resolution
	visited := make(map[string]bool)

	for {
		res.Chain = append(res.Chain, path)
		visited[path] = true

		if !found {
			return res, nil
		}
		leaf, ok := node.(*tree.Leaf)
		if !ok {
			res.Value = r.group(path)
			return res, nil
		}
		if !leaf.Value.IsReference() {
			res.Value = leaf.Value
			return res, nil
		}

		next := leaf.Value.Reference()
		path = next.String()
		if visited[path] {
			chain := append(res.Chain, path)
			return Resolution{Chain: chain}, &CycleError{Chain: chain}
		}
		node, found = r.tree.LookupPath(next)
	}
}

// group returns the subtree a group path names as a composite value.
func (r *Resolver) group(path string) tree.Value {
	p, ok := tree.ParsePath(path)
	if !ok {
		return tree.Absent()
	}
	sub, ok := r.tree.Subtree(p)
	if !ok {
		return tree.Absent()
	}
	return tree.Composite(sub)
}

// ResolveMany resolves every entry of paths (caller key -> dotted path)
// under the shared mode. The result always holds every input key. Entries
// that fail are left absent and their errors are joined into the returned
// error; they never stop the other entries from resolving.
func (r *Resolver) ResolveMany(paths map[string]string, mode string) (map[string]tree.Value, error) {
	out := make(map[string]tree.Value, len(paths))
	var errs []error

	for _, key := range slices.Sorted(maps.Keys(paths)) {
		v, err := r.Resolve(paths[key], mode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		out[key] = v
	}

	return out, errors.Join(errs...)
}
