/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load builds token trees from files, npm packages and URLs.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"bennypowers.dev/tokenref/config"
	tokfs "bennypowers.dev/tokenref/fs"
	"bennypowers.dev/tokenref/internal/logger"
	"bennypowers.dev/tokenref/tree"
)

var (
	// ErrNoSources indicates that there was nothing to load.
	ErrNoSources = errors.New("no token sources")

	// ErrLocalResolution indicates that local filesystem resolution failed.
	ErrLocalResolution = errors.New("local resolution failed")

	// ErrNetworkFallback indicates that the CDN network fallback also failed.
	ErrNetworkFallback = errors.New("network fallback failed")
)

// Options configures how tokens are loaded.
type Options struct {
	// Root is the directory relative paths and node_modules lookup start from.
	Root string

	// FS is the filesystem to use. Defaults to the OS filesystem if nil.
	FS tokfs.FileSystem

	// Fetcher enables opt-in network fallback for npm: specifiers that are
	// not installed, and is used for URL sources. URL sources get a default
	// HTTPFetcher when nil; npm: specifiers then get no fallback.
	Fetcher Fetcher

	// FetchTimeout bounds each network fetch. Defaults to DefaultTimeout.
	FetchTimeout time.Duration
}

// Load reads each specifier and merges the decoded trees in order, so later
// sources override earlier ones.
//
// A specifier can be:
//   - a local path: "tokens.json" or "/abs/tokens.yaml"
//   - an npm package file: "npm:@scope/pkg/tokens.json"
//   - a jsr package file: "jsr:@scope/pkg/tokens.json"
//   - a URL: "https://example.com/tokens.json"
func Load(ctx context.Context, specs []string, opts Options) (*tree.Tree, error) {
	sources := make([]config.Source, len(specs))
	for i, spec := range specs {
		sources[i] = config.Source{Spec: spec}
	}
	return LoadSources(ctx, sources, opts)
}

// LoadSources is Load for expanded config sources. Optional sources that
// cannot be read are skipped with a warning.
func LoadSources(ctx context.Context, sources []config.Source, opts Options) (*tree.Tree, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	filesystem := opts.FS
	if filesystem == nil {
		filesystem = tokfs.NewOSFileSystem()
	}

	root, err := absRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	var merged *tree.Tree
	for _, src := range sources {
		content, err := readSource(ctx, src.Spec, root, filesystem, opts)
		if err != nil {
			if src.Optional {
				logger.Warn("skipping optional source %s: %v", src.Spec, err)
				continue
			}
			return nil, fmt.Errorf("failed to load %q: %w", src.Spec, err)
		}

		t, err := tree.Decode(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", src.Spec, err)
		}
		logger.Debug("loaded %d tokens from %s", len(t.Leaves()), src.Spec)

		merged = tree.Merge(merged, t)
	}

	if merged == nil {
		return tree.New(nil, nil, nil), nil
	}
	return merged, nil
}

// FromConfig loads the sources listed in cfg. When cfg.CDN is set and no
// Fetcher was given, an HTTPFetcher provides the npm: fallback.
func FromConfig(ctx context.Context, cfg *config.Config, opts Options) (*tree.Tree, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = tokfs.NewOSFileSystem()
		opts.FS = filesystem
	}

	root, err := absRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	opts.Root = root

	sources, err := cfg.ExpandFiles(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("error expanding config files: %w", err)
	}

	if cfg.CDN && opts.Fetcher == nil {
		opts.Fetcher = NewHTTPFetcher(DefaultMaxSize)
	}

	return LoadSources(ctx, sources, opts)
}

// LocalPaths returns the absolute filesystem paths among specs, resolved
// against root. Used to decide what to watch.
func LocalPaths(specs []string, root string) []string {
	var out []string
	for _, spec := range specs {
		s := ParseSpecifier(spec)
		if s.Kind != KindLocal {
			continue
		}
		p := s.File
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, p)
	}
	return out
}

func absRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) {
		return root, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}
	return abs, nil
}

// readSource returns the bytes behind one specifier.
func readSource(ctx context.Context, spec, root string, filesystem tokfs.FileSystem, opts Options) ([]byte, error) {
	s := ParseSpecifier(spec)

	switch s.Kind {
	case KindURL:
		fetcher := opts.Fetcher
		if fetcher == nil {
			fetcher = NewHTTPFetcher(DefaultMaxSize)
		}
		return fetch(ctx, fetcher, spec, opts.FetchTimeout)

	case KindNPM, KindJSR:
		path, err := resolvePackage(filesystem, root, s)
		if err == nil {
			var content []byte
			content, err = filesystem.ReadFile(path)
			if err == nil {
				return content, nil
			}
		}
		if s.Kind == KindJSR {
			return nil, err
		}
		return fetchFromCDN(ctx, s, opts, err)

	default:
		path := s.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		content, err := filesystem.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return content, nil
	}
}

// fetchFromCDN tries unpkg when local npm resolution failed. Without a
// Fetcher it returns localErr unchanged.
func fetchFromCDN(ctx context.Context, s Specifier, opts Options, localErr error) ([]byte, error) {
	if opts.Fetcher == nil {
		return nil, localErr
	}

	cdnURL, ok := s.CDNURL()
	if !ok {
		return nil, localErr
	}

	logger.Debug("%s not installed locally, fetching %s", s.Raw, cdnURL)
	content, err := fetch(ctx, opts.Fetcher, cdnURL, opts.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w (%w), %w: %w", ErrLocalResolution, localErr, ErrNetworkFallback, err)
	}
	return content, nil
}

func fetch(ctx context.Context, fetcher Fetcher, url string, timeout time.Duration) ([]byte, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fetcher.Fetch(ctx, url)
}
