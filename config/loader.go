/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	tokfs "bennypowers.dev/tokenref/fs"
	"bennypowers.dev/tokenref/internal/logger"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "tokenref"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Source is one token source after glob expansion.
type Source struct {
	// Spec is an absolute path, an npm: specifier or a URL.
	Spec string

	// Optional carries FileSpec.Optional.
	Optional bool
}

// Load searches for .config/tokenref.{yaml,yml,json} under rootDir.
// Returns nil if no config is found (not an error).
func Load(filesystem tokfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg := &Config{}
		switch ext {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configPath, err)
			}
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configPath, err)
			}
		}

		logger.Debug("loaded config %s", configPath)
		return cfg, nil
	}

	return nil, nil
}

// LoadOrDefault returns the config, or defaults if it is missing or broken.
func LoadOrDefault(filesystem tokfs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil {
		logger.Warn("ignoring config: %v", err)
		return Default()
	}
	if cfg == nil {
		return Default()
	}
	return cfg
}

// ExpandFiles expands glob patterns in Files into sources. Relative paths
// are joined to rootDir; npm: specifiers and URLs pass through unchanged.
// Glob matches are sorted so merge order is stable.
func (c *Config) ExpandFiles(filesystem tokfs.FileSystem, rootDir string) ([]Source, error) {
	var result []Source

	for _, spec := range c.Files {
		expanded, err := expandFilePath(filesystem, rootDir, spec.Path)
		if err != nil {
			return nil, err
		}
		for _, p := range expanded {
			result = append(result, Source{Spec: p, Optional: spec.Optional})
		}
	}

	return result, nil
}

// IsRemote reports whether spec is a package specifier or an http(s) URL.
func IsRemote(spec string) bool {
	return strings.HasPrefix(spec, "npm:") ||
		strings.HasPrefix(spec, "jsr:") ||
		strings.HasPrefix(spec, "http://") ||
		strings.HasPrefix(spec, "https://")
}

func expandFilePath(filesystem tokfs.FileSystem, rootDir, pattern string) ([]string, error) {
	if IsRemote(pattern) {
		return []string{pattern}, nil
	}

	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(rootDir, pattern)
	}

	if !containsGlob(pattern) {
		return []string{pattern}, nil
	}

	return expandGlob(filesystem, pattern)
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob walks the non-glob prefix of pattern and matches the rest
// with doublestar, so patterns like themes/**/*.yaml work.
func expandGlob(filesystem tokfs.FileSystem, pattern string) ([]string, error) {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string

	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if ok, _ := doublestar.Match(relPattern, filepath.ToSlash(relPath)); ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(matches)
	return matches, nil
}
