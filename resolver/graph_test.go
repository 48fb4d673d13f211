/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

func mustTree(t *testing.T, raw map[string]any) *tree.Tree {
	t.Helper()
	tr, err := tree.FromMap(raw)
	require.NoError(t, err)
	return tr
}

func TestDependencyGraph_Dependents(t *testing.T) {
	graph := resolver.BuildDependencyGraph(mustTree(t, map[string]any{
		"a": 1.0,
		"c": "{a}",
		"b": "{a}",
		"d": "{b}",
		"group": map[string]any{"x": 1.0},
		"g":     "{group}",
	}))

	assert.Equal(t, []string{"b", "c"}, graph.Dependents("a"), "sorted")
	assert.Equal(t, []string{"d"}, graph.Dependents("b"))
	assert.Equal(t, []string{"g"}, graph.Dependents("group"))
	assert.Empty(t, graph.Dependents("d"))
	assert.Empty(t, graph.Dependents("missing"))
	assert.Empty(t, graph.Cycles())
}

func TestDependencyGraph_Cycle(t *testing.T) {
	graph := resolver.BuildDependencyGraph(mustTree(t, map[string]any{
		"a": "{c}",
		"b": "{a}",
		"c": "{b}",
	}))

	cycles := graph.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "c", "b", "a"}, cycles[0])
}

func TestDependencyGraph_Cycles(t *testing.T) {
	graph := resolver.BuildDependencyGraph(mustTree(t, map[string]any{
		"a":    "{b}",
		"b":    "{a}",
		"self": "{self}",
		"x":    "{a}",
	}))

	cycles := graph.Cycles()
	require.Len(t, cycles, 2, "got %v", cycles)
	assert.Equal(t, []string{"a", "b", "a"}, cycles[0])
	assert.Equal(t, []string{"self", "self"}, cycles[1])
}
