/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package preset provides ready-made groupings of token paths, such as the
// color, spacing and radius sets a component typically needs.
package preset

import (
	"fmt"
	"maps"
	"slices"

	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

// Names of the built-in presets.
const (
	NameColors  = "colors"
	NameRadii   = "radii"
	NameSpacing = "spacing"
)

// Preset is a named map from caller keys to token paths.
type Preset struct {
	// Name identifies the preset.
	Name string

	// Paths maps output keys to dotted token paths.
	Paths map[string]string

	// DefaultMode is used when Resolve is called without a mode.
	DefaultMode string
}

// Resolve resolves every path of the preset. An empty mode falls back to
// the preset's DefaultMode.
func (p Preset) Resolve(r *resolver.Resolver, mode string) (map[string]tree.Value, error) {
	if mode == "" {
		mode = p.DefaultMode
	}
	return r.ResolveMany(p.Paths, mode)
}

// Keys returns the preset's output keys, sorted.
func (p Preset) Keys() []string {
	return slices.Sorted(maps.Keys(p.Paths))
}

// Colors is the built-in color preset. Its default mode is "light".
func Colors() Preset {
	return Preset{
		Name: NameColors,
		Paths: map[string]string{
			"primary": "core.color.primary",
			"text":    "core.color.text",
			"surface": "core.color.surface",
		},
		DefaultMode: "light",
	}
}

// Radii is the built-in radius preset.
func Radii() Preset {
	return Preset{
		Name: NameRadii,
		Paths: map[string]string{
			"md": "core.radius.md",
			"lg": "core.radius.lg",
		},
	}
}

// Spacing is the built-in spacing preset.
func Spacing() Preset {
	return Preset{
		Name: NameSpacing,
		Paths: map[string]string{
			"sm": "core.spacing.sm",
			"md": "core.spacing.md",
			"lg": "core.spacing.lg",
		},
	}
}

// ResolveColors resolves the color preset under mode ("light" when empty).
func ResolveColors(r *resolver.Resolver, mode string) (map[string]tree.Value, error) {
	return Colors().Resolve(r, mode)
}

// ResolveRadii resolves the radius preset.
func ResolveRadii(r *resolver.Resolver) (map[string]tree.Value, error) {
	return Radii().Resolve(r, "")
}

// ResolveSpacing resolves the spacing preset.
func ResolveSpacing(r *resolver.Resolver) (map[string]tree.Value, error) {
	return Spacing().Resolve(r, "")
}

// Registry holds the presets available by name.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry returns a registry holding the built-in presets.
func NewRegistry() *Registry {
	reg := &Registry{presets: make(map[string]Preset)}
	for _, p := range []Preset{Colors(), Radii(), Spacing()} {
		reg.presets[p.Name] = p
	}
	return reg
}

// Define adds a preset or replaces the path map of an existing one. A
// replaced built-in keeps its default mode.
func (reg *Registry) Define(name string, paths map[string]string) {
	p, ok := reg.presets[name]
	if !ok {
		p = Preset{Name: name}
	}
	p.Paths = maps.Clone(paths)
	reg.presets[name] = p
}

// Get returns the preset with the given name.
func (reg *Registry) Get(name string) (Preset, error) {
	p, ok := reg.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", name, reg.Names())
	}
	return p, nil
}

// Names returns the registered preset names, sorted.
func (reg *Registry) Names() []string {
	return slices.Sorted(maps.Keys(reg.presets))
}
