/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package serve

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	presetlib "bennypowers.dev/tokenref/preset"
	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/testutil"
	"bennypowers.dev/tokenref/tree"
)

func newTestTools(t *testing.T, fixture, mode string) *tools {
	t.Helper()
	tr, err := tree.Decode(testutil.LoadFixtureFile(t, fixture))
	require.NoError(t, err)
	return newTools(resolver.New(tr), presetlib.NewRegistry(), mode)
}

func TestResolveToken(t *testing.T) {
	tl := newTestTools(t, "tokens/basic.json", "")
	ctx := context.Background()

	t.Run("reference", func(t *testing.T) {
		_, out, err := tl.resolveToken(ctx, nil, resolveTokenInput{Path: "core.color.primary"})
		require.NoError(t, err)
		assert.Equal(t, "#0066CC", out.Value)
		assert.True(t, out.Found)
		assert.Equal(t, []string{"core.color.primary", "core.color.brand"}, out.Chain)
	})

	t.Run("mode override", func(t *testing.T) {
		_, out, err := tl.resolveToken(ctx, nil, resolveTokenInput{Path: "core.color.text", Mode: "dark"})
		require.NoError(t, err)
		assert.Equal(t, "#FFFFFF", out.Value)
		assert.Equal(t, "dark", out.Mode)
	})

	t.Run("number", func(t *testing.T) {
		_, out, err := tl.resolveToken(ctx, nil, resolveTokenInput{Path: "core.spacing.sm"})
		require.NoError(t, err)
		assert.Equal(t, 4.0, out.Value)
	})

	t.Run("group", func(t *testing.T) {
		_, out, err := tl.resolveToken(ctx, nil, resolveTokenInput{Path: "core.radius"})
		require.NoError(t, err)
		assert.True(t, out.Found)
		assert.Equal(t, map[string]any{"md": "6px", "lg": "{core.radius.md}"}, out.Value)
	})

	t.Run("absent", func(t *testing.T) {
		_, out, err := tl.resolveToken(ctx, nil, resolveTokenInput{Path: "no.such.token"})
		require.NoError(t, err)
		assert.Nil(t, out.Value)
		assert.False(t, out.Found)
	})
}

func TestResolveToken_Cycle(t *testing.T) {
	tl := newTestTools(t, "tokens/cycle.json", "")

	_, _, err := tl.resolveToken(context.Background(), nil, resolveTokenInput{Path: "a"})
	assert.ErrorIs(t, err, resolver.ErrCircularReference)
}

func TestResolveToken_DefaultMode(t *testing.T) {
	tl := newTestTools(t, "tokens/basic.json", "dark")

	_, out, err := tl.resolveToken(context.Background(), nil, resolveTokenInput{Path: "core.color.surface"})
	require.NoError(t, err)
	assert.Equal(t, "#121212", out.Value)
}

func TestResolveTokens(t *testing.T) {
	tl := newTestTools(t, "tokens/cycle.json", "")

	_, out, err := tl.resolveTokens(context.Background(), nil, resolveTokensInput{
		Paths: map[string]string{"good": "ok", "bad": "c", "gone": "missing"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.Values["good"])
	assert.Contains(t, out.Values, "bad")
	assert.Nil(t, out.Values["bad"])
	assert.Contains(t, out.Values, "gone")
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "bad: circular reference detected: c -> c")
}

func TestPresetTool(t *testing.T) {
	tl := newTestTools(t, "tokens/basic.json", "")

	_, out, err := tl.preset(context.Background(), nil, presetInput{Name: "colors"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"primary": "#0066CC",
		"text":    "#000000",
		"surface": "#FAFAFA",
	}, out.Values)
	assert.Empty(t, out.Errors)

	_, _, err = tl.preset(context.Background(), nil, presetInput{Name: "nope"})
	assert.Error(t, err)
}

func TestSwap(t *testing.T) {
	tl := newTestTools(t, "tokens/basic.json", "")

	next, err := tree.FromMap(map[string]any{
		"core": map[string]any{"color": map[string]any{"primary": "#123456"}},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = tl.resolveToken(context.Background(), nil, resolveTokenInput{Path: "core.color.primary"})
		}()
	}
	tl.swap(resolver.New(next))
	wg.Wait()

	_, out, err := tl.resolveToken(context.Background(), nil, resolveTokenInput{Path: "core.color.primary"})
	require.NoError(t, err)
	assert.Equal(t, "#123456", out.Value)
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, newServer(newTestTools(t, "tokens/basic.json", "")))
}
