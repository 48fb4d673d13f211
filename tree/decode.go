/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument indicates token data that cannot form a tree.
var ErrInvalidDocument = errors.New("invalid token document")

var utf8BOM = []byte("\xEF\xBB\xBF")

// Decode parses JSON (comments allowed) or YAML token data into a tree.
func Decode(data []byte) (*Tree, error) {
	var raw map[string]any
	data = bytes.TrimPrefix(data, utf8BOM)

	if isLikelyJSON(data) {
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		var yamlRaw any
		if err := yaml.Unmarshal(data, &yamlRaw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if yamlRaw == nil {
			return New(nil, nil, nil), nil
		}
		var ok bool
		raw, ok = normalizeMap(yamlRaw).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: YAML root must be a mapping", ErrInvalidDocument)
		}
	}

	return FromMap(raw)
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '/':
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeMap converts the map[any]any values yaml.v3 produces for
// non-string keys (e.g. "100:" in a spacing scale) into map[string]any.
func normalizeMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeMap(val)
		}
		return x
	case map[any]any:
		result := make(map[string]any, len(x))
		for k, val := range x {
			result[fmt.Sprintf("%v", k)] = normalizeMap(val)
		}
		return result
	case []any:
		for i, val := range x {
			x[i] = normalizeMap(val)
		}
		return x
	case int:
		return float64(x)
	default:
		return v
	}
}

// FromMap builds a tree from an already decoded document. The top-level
// "modes" key, when present, must map mode names to path-keyed overrides.
func FromMap(raw map[string]any) (*Tree, error) {
	if raw == nil {
		return New(nil, nil, nil), nil
	}

	root := NewGroup()
	for key, v := range raw {
		if key == ModesKey {
			continue
		}
		if node := buildNode(v); node != nil {
			root.Children[key] = node
		}
	}

	modes, err := buildModes(raw[ModesKey])
	if err != nil {
		return nil, err
	}

	return New(root, modes, raw), nil
}

func buildNode(v any) Node {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if val, ok := valueField(x); ok {
			return buildLeaf(x, val)
		}
		g := NewGroup()
		for key, child := range x {
			if node := buildNode(child); node != nil {
				g.Children[key] = node
			}
		}
		return g
	default:
		return &Leaf{Value: FromRaw(x, true)}
	}
}

// valueField returns the leaf value of a structured node. A plain "value"
// key wins over the DTCG "$value" spelling.
func valueField(m map[string]any) (any, bool) {
	if v, ok := m["value"]; ok {
		return v, true
	}
	v, ok := m["$value"]
	return v, ok
}

func buildLeaf(m map[string]any, val any) *Leaf {
	leaf := &Leaf{Value: FromRaw(val, true)}
	for key, v := range m {
		switch key {
		case "value", "$value":
			continue
		case "type", "$type":
			if s, ok := v.(string); ok && leaf.Type == "" {
				leaf.Type = s
				continue
			}
		case "description", "$description":
			if s, ok := v.(string); ok && leaf.Description == "" {
				leaf.Description = s
				continue
			}
		}
		if leaf.Meta == nil {
			leaf.Meta = make(map[string]any)
		}
		leaf.Meta[key] = v
	}
	return leaf
}

func buildModes(v any) (map[string]map[string]Value, error) {
	modes := map[string]map[string]Value{}
	if v == nil {
		return modes, nil
	}
	byMode, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a mapping of mode names", ErrInvalidDocument, ModesKey)
	}
	for mode, ov := range byMode {
		overrides, ok := ov.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s must be a mapping of token paths", ErrInvalidDocument, ModesKey, mode)
		}
		values := make(map[string]Value, len(overrides))
		for path, raw := range overrides {
			values[path] = FromRaw(raw, false)
		}
		modes[mode] = values
	}
	return modes, nil
}

// Merge returns a new tree holding a overlaid with b. Leaves and mode
// overrides from b replace those in a; groups merge recursively. Neither
// input is modified.
func Merge(a, b *Tree) *Tree {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}

	modes := make(map[string]map[string]Value, len(a.modes)+len(b.modes))
	for mode, overrides := range a.modes {
		modes[mode] = maps.Clone(overrides)
	}
	for mode, overrides := range b.modes {
		if modes[mode] == nil {
			modes[mode] = make(map[string]Value, len(overrides))
		}
		maps.Copy(modes[mode], overrides)
	}

	return New(mergeGroups(a.root, b.root), modes, mergeRaw(a.raw, b.raw))
}

func mergeGroups(a, b *Group) *Group {
	out := NewGroup()
	maps.Copy(out.Children, a.Children)
	for key, bn := range b.Children {
		ag, aIsGroup := out.Children[key].(*Group)
		bg, bIsGroup := bn.(*Group)
		if aIsGroup && bIsGroup {
			out.Children[key] = mergeGroups(ag, bg)
			continue
		}
		out.Children[key] = bn
	}
	return out
}

func mergeRaw(a, b map[string]any) map[string]any {
	out := maps.Clone(a)
	if out == nil {
		out = make(map[string]any, len(b))
	}
	for key, bv := range b {
		am, aIsMap := out[key].(map[string]any)
		bm, bIsMap := bv.(map[string]any)
		if aIsMap && bIsMap && isGroupData(am) && isGroupData(bm) {
			out[key] = mergeRaw(am, bm)
			continue
		}
		out[key] = bv
	}
	return out
}

// isGroupData reports whether a decoded mapping builds a group rather than
// a structured leaf.
func isGroupData(m map[string]any) bool {
	_, isLeaf := valueField(m)
	return !isLeaf
}
