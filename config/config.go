/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides project configuration for tokenref.
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/tokenref/preset"
)

// Config represents the tokenref project configuration.
type Config struct {
	// Files lists token sources (paths, globs, npm: specifiers or URLs),
	// merged in order; later files win.
	Files []FileSpec `yaml:"files" json:"files"`

	// Mode is the default mode when none is given on the command line.
	Mode string `yaml:"mode" json:"mode"`

	// Prefix is the CSS variable prefix for css output.
	Prefix string `yaml:"prefix" json:"prefix"`

	// CDN enables network fallback for npm: specifiers that are not
	// installed locally.
	CDN bool `yaml:"cdn" json:"cdn"`

	// Presets adds named path maps, or replaces the paths of built-in
	// presets (colors, radii, spacing).
	Presets map[string]map[string]string `yaml:"presets" json:"presets"`
}

// FileSpec represents a token source.
// It can be specified as a simple string or as an object.
type FileSpec struct {
	// Path is the file path, glob, npm: specifier or URL.
	Path string `yaml:"path" json:"path"`

	// Optional skips the source when it cannot be found.
	Optional bool `yaml:"optional" json:"optional"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// FilePaths returns the list of paths from all FileSpecs, unexpanded.
func (c *Config) FilePaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, spec := range c.Files {
		paths = append(paths, spec.Path)
	}
	return paths
}

// PresetRegistry returns the built-in presets with this config's presets applied.
func (c *Config) PresetRegistry() *preset.Registry {
	reg := preset.NewRegistry()
	for name, paths := range c.Presets {
		reg.Define(name, paths)
	}
	return reg
}
