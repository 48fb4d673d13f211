/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/testutil"
	"bennypowers.dev/tokenref/tree"
)

func newResolver(t *testing.T, raw map[string]any) *resolver.Resolver {
	t.Helper()
	tr, err := tree.FromMap(raw)
	require.NoError(t, err)
	return resolver.New(tr)
}

func fixtureResolver(t *testing.T, fixture string) *resolver.Resolver {
	t.Helper()
	tr, err := tree.Decode(testutil.LoadFixtureFile(t, fixture))
	require.NoError(t, err)
	return resolver.New(tr)
}

func TestResolve_TerminalScalar(t *testing.T) {
	r := newResolver(t, map[string]any{
		"core": map[string]any{
			"color":   map[string]any{"text": "#000000"},
			"spacing": map[string]any{"sm": 4.0},
			"flag":    true,
		},
	})

	tests := []struct {
		path string
		want any
	}{
		{"core.color.text", "#000000"},
		{"core.spacing.sm", 4.0},
		{"core.flag", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := r.Resolve(tt.path, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestResolve_ZeroIsTerminal(t *testing.T) {
	r := newResolver(t, map[string]any{"space": map[string]any{"none": 0.0, "empty": ""}})

	v, err := r.Resolve("space.none", "")
	require.NoError(t, err)
	assert.Equal(t, tree.KindNumber, v.Kind())
	assert.Equal(t, 0.0, v.Interface())

	v, err = r.Resolve("space.empty", "")
	require.NoError(t, err)
	assert.Equal(t, tree.KindString, v.Kind())
}

func TestResolve_ValueWrapper(t *testing.T) {
	r := newResolver(t, map[string]any{
		"radius": map[string]any{
			"md": map[string]any{"value": "8px", "meta": map[string]any{"figma": "r-md"}},
		},
	})

	v, err := r.Resolve("radius.md", "")
	require.NoError(t, err)
	assert.Equal(t, "8px", v.Interface())
}

func TestResolve_SingleHopReference(t *testing.T) {
	r := newResolver(t, map[string]any{
		"a": map[string]any{"b": "{c.d}"},
		"c": map[string]any{"d": 5.0},
	})

	v, err := r.Resolve("a.b", "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Interface())
}

func TestResolve_MultiHopChain(t *testing.T) {
	r := newResolver(t, map[string]any{
		"a": "{b}",
		"b": map[string]any{"value": "{c}"},
		"c": 42.0,
	})

	res, err := r.Trace("a", "")
	require.NoError(t, err)
	assert.Equal(t, 42.0, res.Value.Interface())
	assert.Equal(t, []string{"a", "b", "c"}, res.Chain)
	assert.Empty(t, res.Mode)
}

func TestResolve_ReferencesResolveFromRoot(t *testing.T) {
	r := newResolver(t, map[string]any{
		"x": map[string]any{
			"y": "{z}",
			"z": "nested",
		},
		"z": "root",
	})

	v, err := r.Resolve("x.y", "")
	require.NoError(t, err)
	assert.Equal(t, "root", v.Interface())
}

func TestResolve_ModeOverride(t *testing.T) {
	r := newResolver(t, map[string]any{
		"core": map[string]any{
			"color": map[string]any{"text": "#000000"},
		},
		"modes": map[string]any{
			"dark": map[string]any{"core.color.text": "#FFFFFF"},
		},
	})

	v, err := r.Resolve("core.color.text", "dark")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", v.Interface())

	v, err = r.Resolve("core.color.text", "")
	require.NoError(t, err)
	assert.Equal(t, "#000000", v.Interface())

	res, err := r.Trace("core.color.text", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", res.Mode)
}

func TestResolve_MissingOverrideFallsThrough(t *testing.T) {
	r := fixtureResolver(t, "tokens/basic.json")

	for _, path := range []string{"core.color.primary", "core.spacing.md", "core.radius.lg"} {
		t.Run(path, func(t *testing.T) {
			withMode, err := r.Resolve(path, "dark")
			require.NoError(t, err)
			without, err := r.Resolve(path, "")
			require.NoError(t, err)
			assert.Equal(t, without, withMode)
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		v, err := r.Resolve("core.color.text", "sepia")
		require.NoError(t, err)
		assert.Equal(t, "#000000", v.Interface())
	})

	t.Run("falsy override is ignored", func(t *testing.T) {
		v, err := r.Resolve("core.color.primary", "dark")
		require.NoError(t, err)
		assert.Equal(t, "#0066CC", v.Interface())
	})
}

func TestResolve_OverrideIsNotResolved(t *testing.T) {
	r := newResolver(t, map[string]any{
		"a": "#111",
		"b": "#222",
		"modes": map[string]any{
			"dark": map[string]any{"a": "{b}"},
		},
	})

	v, err := r.Resolve("a", "dark")
	require.NoError(t, err)
	assert.Equal(t, tree.KindString, v.Kind())
	assert.Equal(t, "{b}", v.Interface())
}

func TestResolve_Absent(t *testing.T) {
	r := fixtureResolver(t, "tokens/basic.json")

	tests := []string{
		"nonexistent.path",
		"",
		".",
		"core..color",
		".core.color.text",
		"core.color.text.",
		"core.color.text.deeper",
		"modes",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			v, err := r.Resolve(path, "")
			require.NoError(t, err)
			assert.True(t, v.IsAbsent())
		})
	}
}

func TestResolve_DanglingReferenceIsAbsent(t *testing.T) {
	r := fixtureResolver(t, "tokens/cycle.json")

	res, err := r.Trace("dangling", "")
	require.NoError(t, err)
	assert.True(t, res.Value.IsAbsent())
	assert.Equal(t, []string{"dangling", "nowhere.at.all"}, res.Chain)
}

func TestResolve_GroupIsItsSubtree(t *testing.T) {
	tr, err := tree.Decode([]byte(`{
  "core": {
    "radius": { "md": "8px", "lg": "{core.radius.md}", "pill": { "value": "999px", "type": "dimension" } }
  },
  "alias": "{core.radius}",
  "modes": { "dark": { "core.radius": "" } }
}`))
	require.NoError(t, err)
	r := resolver.New(tr)

	want := map[string]any{
		"md":   "8px",
		"lg":   "{core.radius.md}",
		"pill": map[string]any{"value": "999px", "type": "dimension"},
	}

	t.Run("direct", func(t *testing.T) {
		v, err := r.Resolve("core.radius", "")
		require.NoError(t, err)
		assert.Equal(t, tree.KindComposite, v.Kind())
		assert.Equal(t, want, v.Interface())
	})

	t.Run("through a reference", func(t *testing.T) {
		res, err := r.Trace("alias", "dark")
		require.NoError(t, err)
		assert.Equal(t, want, res.Value.Interface())
		assert.Equal(t, []string{"alias", "core.radius"}, res.Chain)
	})

	t.Run("falsy group override falls through", func(t *testing.T) {
		v, err := r.Resolve("core.radius", "dark")
		require.NoError(t, err)
		assert.Equal(t, want, v.Interface())
	})

	t.Run("result is a copy", func(t *testing.T) {
		v, err := r.Resolve("core.radius", "")
		require.NoError(t, err)
		v.Interface().(map[string]any)["md"] = "changed"

		again, err := r.Resolve("core.radius.md", "")
		require.NoError(t, err)
		assert.Equal(t, "8px", again.Interface())

		v, err = r.Resolve("core.radius", "")
		require.NoError(t, err)
		assert.Equal(t, "8px", v.Interface().(map[string]any)["md"])
	})

	t.Run("root is not addressable", func(t *testing.T) {
		v, err := r.Resolve("", "")
		require.NoError(t, err)
		assert.True(t, v.IsAbsent())
	})
}

func TestResolve_GroupFromFixture(t *testing.T) {
	r := fixtureResolver(t, "tokens/cycle.json")

	v, err := r.Resolve("toGroup", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1.0}, v.Interface())
}

func TestResolve_GroupAfterMerge(t *testing.T) {
	base, err := tree.FromMap(map[string]any{
		"space": map[string]any{"sm": "4px", "md": "8px"},
	})
	require.NoError(t, err)
	overlay, err := tree.FromMap(map[string]any{
		"space": map[string]any{"md": "10px", "lg": "16px"},
	})
	require.NoError(t, err)

	v, err := resolver.New(tree.Merge(base, overlay)).Resolve("space", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sm": "4px", "md": "10px", "lg": "16px"}, v.Interface())
}

func TestResolve_CycleTerminates(t *testing.T) {
	r := fixtureResolver(t, "tokens/cycle.json")

	tests := []struct {
		path  string
		chain []string
	}{
		{"a", []string{"a", "b", "a"}},
		{"b", []string{"b", "a", "b"}},
		{"c", []string{"c", "c"}},
		{"e", []string{"e", "f", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := r.Resolve(tt.path, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, resolver.ErrCircularReference))
			assert.True(t, v.IsAbsent())

			var cycleErr *resolver.CycleError
			require.True(t, errors.As(err, &cycleErr))
			assert.Equal(t, tt.chain, cycleErr.Chain)
		})
	}

	t.Run("non-cyclic neighbours still resolve", func(t *testing.T) {
		v, err := r.Resolve("ok", "")
		require.NoError(t, err)
		assert.Equal(t, 1.0, v.Interface())
	})
}

func TestResolveMany(t *testing.T) {
	r := fixtureResolver(t, "tokens/basic.json")

	out, err := r.ResolveMany(map[string]string{
		"x": "core.color.primary",
		"y": "nonexistent",
	}, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "#0066CC", out["x"].Interface())
	assert.True(t, out["y"].IsAbsent())
}

func TestResolveMany_SharedMode(t *testing.T) {
	r := fixtureResolver(t, "tokens/basic.json")

	out, err := r.ResolveMany(map[string]string{
		"text":    "core.color.text",
		"surface": "core.color.surface",
		"primary": "core.color.primary",
	}, "dark")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", out["text"].Interface())
	assert.Equal(t, "#121212", out["surface"].Interface())
	assert.Equal(t, "#0066CC", out["primary"].Interface())
}

func TestResolveMany_CycleDoesNotShortCircuit(t *testing.T) {
	r := fixtureResolver(t, "tokens/cycle.json")

	out, err := r.ResolveMany(map[string]string{
		"loop":    "a",
		"fine":    "ok",
		"missing": "dangling",
	}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrCircularReference))
	assert.Contains(t, err.Error(), "loop")

	require.Len(t, out, 3)
	assert.True(t, out["loop"].IsAbsent())
	assert.Equal(t, 1.0, out["fine"].Interface())
	assert.True(t, out["missing"].IsAbsent())
}

func TestResolveMany_Empty(t *testing.T) {
	r := newResolver(t, nil)
	out, err := r.ResolveMany(map[string]string{}, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResolve_Concurrent(t *testing.T) {
	r := fixtureResolver(t, "tokens/basic.json")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				v, err := r.Resolve("core.color.primary", "dark")
				assert.NoError(t, err)
				assert.Equal(t, "#0066CC", v.Interface())
			}
		}()
	}
	wg.Wait()
}
