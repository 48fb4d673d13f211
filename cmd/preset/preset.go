/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package preset provides the preset command for tokenref.
package preset

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/cmd/render"
	presetlib "bennypowers.dev/tokenref/preset"
	"bennypowers.dev/tokenref/resolver"
)

// Cmd is the preset cobra command.
var Cmd = &cobra.Command{
	Use:   "preset [name]",
	Short: "Resolve a named group of tokens",
	Long: `Resolve a preset: a named map of keys to token paths. Built-in presets are
colors, radii and spacing; more can be defined under presets: in the config.
Without a name, lists the available presets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, css")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	p, err := project.Open(cmd.Context())
	if err != nil {
		return err
	}

	reg := p.Presets()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range reg.Names() {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil
	}

	pre, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	return write(out, p.Resolver, pre, p.Mode, p.Prefix, format)
}

// write resolves pre and renders it. Values are written even when some
// entries fail, and the failure is returned afterwards.
func write(w io.Writer, r *resolver.Resolver, pre presetlib.Preset, mode, prefix, format string) error {
	values, resolveErr := pre.Resolve(r, mode)
	rows := render.ValueRows(values, pre.Keys(), prefix)

	var err error
	switch format {
	case "json":
		err = render.JSON(w, rows)
	case "css":
		err = render.CSS(w, rows)
	case "table":
		if mode == "" {
			mode = pre.DefaultMode
		}
		if _, err = fmt.Fprintf(w, "%s\n\n", render.Heading(pre.Name, mode)); err == nil {
			err = render.Table(w, rows, render.IsTerminal(w))
		}
	default:
		return fmt.Errorf("unknown format %q (want table, json or css)", format)
	}
	if err != nil {
		return err
	}
	return resolveErr
}
