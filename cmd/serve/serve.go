/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package serve provides the serve command, an MCP server over stdio that
// answers token queries.
package serve

import (
	"context"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/internal/logger"
	"bennypowers.dev/tokenref/internal/version"
	"bennypowers.dev/tokenref/load"
)

// Cmd is the serve cobra command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve token queries over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the
resolve_token, resolve_tokens and preset tools. With --watch, local token
files are reloaded when they change.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("watch", false, "Reload local token files when they change")
}

func run(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	ctx := cmd.Context()

	if !viper.GetBool("verbose") {
		logger.SetOutput(io.Discard)
	}

	p, err := project.Open(ctx)
	if err != nil {
		return err
	}

	t := newTools(p.Resolver, p.Presets(), p.Mode)

	if watch {
		if err := startWatcher(ctx, p, t); err != nil {
			return err
		}
	}

	return newServer(t).Run(ctx, &mcp.StdioTransport{})
}

// newServer registers the token tools on a new MCP server.
func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tokenref",
		Version: version.Get(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_token",
		Description: "Resolve a dotted design token path to its value, following references and applying mode overrides.",
	}, t.resolveToken)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_tokens",
		Description: "Resolve a map of keys to dotted token paths under one mode.",
	}, t.resolveTokens)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preset",
		Description: "Resolve a named preset such as colors, radii or spacing.",
	}, t.preset)

	return server
}

// startWatcher reloads the project when a local token file changes and
// swaps the new resolver in. A failed reload keeps the current one.
func startWatcher(ctx context.Context, p *project.Project, t *tools) error {
	w, err := load.NewWatcher()
	if err != nil {
		return err
	}
	for _, path := range p.LocalFiles() {
		if err := w.Watch(path); err != nil {
			logger.Warn("cannot watch %s: %v", path, err)
		}
	}

	w.OnChange(func(path string) {
		r, err := p.Reload(ctx)
		if err != nil {
			logger.Warn("reload after change to %s failed: %v", path, err)
			return
		}
		t.swap(r)
		logger.Info("reloaded tokens after change to %s", path)
	})

	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Warn("watcher stopped: %v", err)
		}
	}()
	return nil
}
