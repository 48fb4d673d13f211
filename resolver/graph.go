/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"maps"
	"slices"

	"bennypowers.dev/tokenref/tree"
)

// DependencyGraph is the directed graph of references between leaves.
// Nodes are dotted leaf paths; an edge a -> b means a references b.
type DependencyGraph struct {
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        map[string]bool
}

// BuildDependencyGraph builds the reference graph of every leaf in t.
// Referenced paths that are not leaves still appear as nodes.
func BuildDependencyGraph(t *tree.Tree) *DependencyGraph {
	graph := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		nodes:        make(map[string]bool),
	}

	for _, e := range t.Leaves() {
		name := e.Path.String()
		graph.nodes[name] = true

		if !e.Leaf.Value.IsReference() {
			continue
		}
		dep := e.Leaf.Value.Reference().String()
		graph.nodes[dep] = true
		graph.dependencies[name] = append(graph.dependencies[name], dep)
		graph.dependents[dep] = append(graph.dependents[dep], name)
	}

	return graph
}

// Dependents returns the paths that reference the given path directly,
// sorted.
func (g *DependencyGraph) Dependents(path string) []string {
	return slices.Sorted(slices.Values(g.dependents[path]))
}

// Cycles returns every distinct cycle in the graph, visiting nodes in sorted
// order. Each cycle is a path list whose last entry repeats the first.
func (g *DependencyGraph) Cycles() [][]string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var cycles [][]string

	for _, node := range slices.Sorted(maps.Keys(g.nodes)) {
		g.findCyclesDFS(node, visited, recStack, nil, &cycles)
	}
	return cycles
}

func (g *DependencyGraph) findCyclesDFS(node string, visited, recStack map[string]bool, path []string, cycles *[][]string) {
	if recStack[node] {
		cycleStart := slices.Index(path, node)
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		cycle := slices.Clone(path[cycleStart:])
		*cycles = append(*cycles, append(cycle, node))
		return
	}
	if visited[node] {
		return
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		g.findCyclesDFS(dep, visited, recStack, path, cycles)
	}

	recStack[node] = false
}
