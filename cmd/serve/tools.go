/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package serve

import (
	"context"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	presetlib "bennypowers.dev/tokenref/preset"
	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

// tools implements the MCP tool handlers over the current resolver.
type tools struct {
	current     atomic.Pointer[resolver.Resolver]
	presets     *presetlib.Registry
	defaultMode string
}

func newTools(r *resolver.Resolver, presets *presetlib.Registry, defaultMode string) *tools {
	t := &tools{presets: presets, defaultMode: defaultMode}
	t.current.Store(r)
	return t
}

func (t *tools) swap(r *resolver.Resolver) {
	t.current.Store(r)
}

func (t *tools) mode(requested string) string {
	if requested != "" {
		return requested
	}
	return t.defaultMode
}

type resolveTokenInput struct {
	Path string `json:"path" jsonschema:"dotted token path, e.g. core.color.primary"`
	Mode string `json:"mode,omitempty" jsonschema:"mode whose overrides apply, e.g. dark"`
}

type resolveTokenOutput struct {
	Path  string   `json:"path"`
	Value any      `json:"value"`
	Found bool     `json:"found"`
	Chain []string `json:"chain,omitempty"`
	Mode  string   `json:"mode,omitempty"`
}

func (t *tools) resolveToken(ctx context.Context, req *mcp.CallToolRequest, in resolveTokenInput) (*mcp.CallToolResult, resolveTokenOutput, error) {
	res, err := t.current.Load().Trace(in.Path, t.mode(in.Mode))
	if err != nil {
		return nil, resolveTokenOutput{}, err
	}
	return nil, resolveTokenOutput{
		Path:  in.Path,
		Value: res.Value.Interface(),
		Found: !res.Value.IsAbsent(),
		Chain: res.Chain,
		Mode:  res.Mode,
	}, nil
}

type resolveTokensInput struct {
	Paths map[string]string `json:"paths" jsonschema:"map of result keys to dotted token paths"`
	Mode  string            `json:"mode,omitempty" jsonschema:"mode whose overrides apply, e.g. dark"`
}

type valuesOutput struct {
	Values map[string]any `json:"values"`
	Errors []string       `json:"errors,omitempty"`
}

func (t *tools) resolveTokens(ctx context.Context, req *mcp.CallToolRequest, in resolveTokensInput) (*mcp.CallToolResult, valuesOutput, error) {
	values, err := t.current.Load().ResolveMany(in.Paths, t.mode(in.Mode))
	return nil, toOutput(values, err), nil
}

type presetInput struct {
	Name string `json:"name" jsonschema:"preset name, e.g. colors"`
	Mode string `json:"mode,omitempty" jsonschema:"mode whose overrides apply; defaults to the preset's mode"`
}

func (t *tools) preset(ctx context.Context, req *mcp.CallToolRequest, in presetInput) (*mcp.CallToolResult, valuesOutput, error) {
	p, err := t.presets.Get(in.Name)
	if err != nil {
		return nil, valuesOutput{}, err
	}
	values, err := p.Resolve(t.current.Load(), t.mode(in.Mode))
	return nil, toOutput(values, err), nil
}

// toOutput converts resolved values to plain JSON values, one error string
// per failed entry.
func toOutput(values map[string]tree.Value, err error) valuesOutput {
	out := valuesOutput{Values: make(map[string]any, len(values))}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		out.Values[key] = values[key].Interface()
	}
	if err == nil {
		return out
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out.Errors = append(out.Errors, e.Error())
		}
	} else {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}
