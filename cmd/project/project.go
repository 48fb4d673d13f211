/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project opens the token project a command operates on: it reads
// the config, loads and merges the token sources, and builds a resolver.
package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/tokenref/config"
	tokfs "bennypowers.dev/tokenref/fs"
	"bennypowers.dev/tokenref/load"
	"bennypowers.dev/tokenref/preset"
	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

// ErrNoTokens indicates that neither flags nor config named any token source.
var ErrNoTokens = errors.New("no token files: pass --tokens or list files in .config/tokenref.yaml")

// Settings are the command-line inputs that shape a project.
type Settings struct {
	Root   string
	Tokens []string
	Mode   string
	Prefix string
}

// SettingsFromViper reads the persistent flags bound in the root command.
func SettingsFromViper() Settings {
	return Settings{
		Root:   viper.GetString("root"),
		Tokens: viper.GetStringSlice("tokens"),
		Mode:   viper.GetString("mode"),
		Prefix: viper.GetString("prefix"),
	}
}

// Project is a loaded token project.
type Project struct {
	Root     string
	Config   *config.Config
	Tree     *tree.Tree
	Resolver *resolver.Resolver

	// Mode and Prefix are the flag values, falling back to config.
	Mode   string
	Prefix string

	sources []config.Source
	opts    load.Options
}

// Open loads the project described by the root command's flags from the
// OS filesystem.
func Open(ctx context.Context) (*Project, error) {
	return OpenFS(ctx, tokfs.NewOSFileSystem(), SettingsFromViper())
}

// OpenFS loads a project from filesystem. Token sources given in s replace
// the config's files list.
func OpenFS(ctx context.Context, filesystem tokfs.FileSystem, s Settings) (*Project, error) {
	root := s.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = abs
	}

	cfg := config.LoadOrDefault(filesystem, root)

	p := &Project{
		Root:   root,
		Config: cfg,
		Mode:   s.Mode,
		Prefix: s.Prefix,
		opts:   load.Options{Root: root, FS: filesystem},
	}
	if p.Mode == "" {
		p.Mode = cfg.Mode
	}
	if p.Prefix == "" {
		p.Prefix = cfg.Prefix
	}
	if cfg.CDN {
		p.opts.Fetcher = load.NewHTTPFetcher(load.DefaultMaxSize)
	}

	files := cfg
	if len(s.Tokens) > 0 {
		files = &config.Config{}
		for _, spec := range s.Tokens {
			files.Files = append(files.Files, config.FileSpec{Path: spec})
		}
	}

	sources, err := files.ExpandFiles(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("error expanding token files: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoTokens
	}
	p.sources = sources

	r, err := p.Reload(ctx)
	if err != nil {
		return nil, err
	}
	p.Resolver = r
	p.Tree = r.Tree()
	return p, nil
}

// Reload reads every token source again and returns a fresh resolver. The
// project itself is not modified.
func (p *Project) Reload(ctx context.Context) (*resolver.Resolver, error) {
	t, err := load.LoadSources(ctx, p.sources, p.opts)
	if err != nil {
		return nil, err
	}
	return resolver.New(t), nil
}

// Specs returns the expanded token source specifiers, in merge order.
func (p *Project) Specs() []string {
	specs := make([]string, len(p.sources))
	for i, s := range p.sources {
		specs[i] = s.Spec
	}
	return specs
}

// LocalFiles returns the absolute paths of sources on the local filesystem.
func (p *Project) LocalFiles() []string {
	return load.LocalPaths(p.Specs(), p.Root)
}

// Presets returns the built-in presets with config presets applied.
func (p *Project) Presets() *preset.Registry {
	return p.Config.PresetRegistry()
}
