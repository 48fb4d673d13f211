/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenref/testutil"
	"bennypowers.dev/tokenref/tree"
)

func decode(t *testing.T, fixture string) *tree.Tree {
	t.Helper()
	tr, err := tree.Decode(testutil.LoadFixtureFile(t, fixture))
	require.NoError(t, err, "failed to decode %s", fixture)
	return tr
}

func TestReport_Valid(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, report(&out, &errOut, decode(t, "tokens/basic.json"), false, false), errOut.String())
	assert.Contains(t, out.String(), "All tokens valid.")
}

func TestReport_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, report(&out, &errOut, decode(t, "tokens/basic.json"), false, true))
	assert.Zero(t, out.Len(), "expected no output, got %q", out.String())
}

func TestReport_Errors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := report(&out, &errOut, decode(t, "tokens/cycle.json"), false, false)
	require.Error(t, err, "expected validation to fail")
	assert.Contains(t, err.Error(), "4 errors, 2 warnings")

	stderr := errOut.String()
	for _, want := range []string{
		"error: a: circular reference: a -> b -> a",
		"error: dangling: references missing token",
		"warning: toGroup: references group",
		"warning: modes.dark[nowhere]",
	} {
		assert.Contains(t, stderr, want)
	}
}

func TestReport_GroupReferenceIsWarning(t *testing.T) {
	tr, err := tree.FromMap(map[string]any{
		"radius": map[string]any{"md": "8px"},
		"all":    "{radius}",
	})
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	assert.NoError(t, report(&out, &errOut, tr, false, false))
	assert.Contains(t, errOut.String(), "warning: all: references group")
	assert.Error(t, report(&out, &errOut, tr, true, false), "warnings fail with --strict")
}

func TestReport_StrictWarnings(t *testing.T) {
	tr, err := tree.FromMap(map[string]any{
		"a":     "#fff",
		"modes": map[string]any{"dark": map[string]any{"b": "#000"}},
	})
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	assert.NoError(t, report(&out, &errOut, tr, false, false), "warnings pass without --strict")
	assert.Error(t, report(&out, &errOut, tr, true, false), "warnings fail with --strict")
}
