/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	presetlib "bennypowers.dev/tokenref/preset"
	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/testutil"
	"bennypowers.dev/tokenref/tree"
)

func newResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	tr, err := tree.Decode(testutil.LoadFixtureFile(t, "tokens/basic.json"))
	require.NoError(t, err, "failed to decode fixture")
	return resolver.New(tr)
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, write(&buf, newResolver(t), presetlib.Colors(), "dark", "", "table"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Colors (dark)\n\n"), "expected heading, got %q", out)
	for _, want := range []string{"#0066CC", "#FFFFFF", "#121212"} {
		assert.Contains(t, out, want)
	}
}

func TestWrite_DefaultModeHeading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, write(&buf, newResolver(t), presetlib.Colors(), "", "", "table"))

	assert.True(t, strings.HasPrefix(buf.String(), "Colors (light)\n"), "expected light heading, got %q", buf.String())
	assert.Contains(t, buf.String(), "#FAFAFA", "light surface override")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, write(&buf, newResolver(t), presetlib.Radii(), "", "", "json"))

	var rows []struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "6px", r.Value, r.Key)
	}
}

func TestWrite_CSS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, write(&buf, newResolver(t), presetlib.Spacing(), "", "acme", "css"))
	assert.Equal(t, ":root {\n  --acme-lg: 16px;\n  --acme-md: 8px;\n  --acme-sm: 4;\n}\n", buf.String())
}

func TestWrite_CycleStillRenders(t *testing.T) {
	tr, err := tree.Decode(testutil.LoadFixtureFile(t, "tokens/cycle.json"))
	require.NoError(t, err)
	pre := presetlib.Preset{Name: "loop", Paths: map[string]string{"a": "a", "ok": "ok"}}

	var buf bytes.Buffer
	err = write(&buf, resolver.New(tr), pre, "", "", "json")
	assert.ErrorIs(t, err, resolver.ErrCircularReference)
	assert.Contains(t, buf.String(), `"key": "ok"`, "healthy entries still render")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, write(&buf, newResolver(t), presetlib.Radii(), "", "", "xml"))
}
