/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for tokenref.
package resolve

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/cmd/render"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Resolve token paths to their values",
	Long: `Resolve one or more dotted token paths, following references to the
terminal value. With --mode, that mode's overrides are consulted first.

Examples:
  tokenref resolve core.color.primary
  tokenref resolve --mode dark --chain core.color.surface core.color.text`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	Cmd.Flags().Bool("chain", false, "Show the reference chain followed")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	chain, _ := cmd.Flags().GetBool("chain")

	p, err := project.Open(cmd.Context())
	if err != nil {
		return err
	}

	rows := render.QueryRows(p.Resolver, args, p.Mode, p.Prefix)

	switch format {
	case "json":
		err = render.JSON(cmd.OutOrStdout(), rows)
	case "text":
		err = writeText(cmd.OutOrStdout(), rows, chain)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	if err != nil {
		return err
	}

	return failures(rows)
}

// writeText prints one value per line. Several queries are prefixed with
// their path.
func writeText(w io.Writer, rows []render.Row, chain bool) error {
	for _, r := range rows {
		var line strings.Builder
		if len(rows) > 1 {
			line.WriteString(r.Key)
			line.WriteString(" = ")
		}
		line.WriteString(r.Display())
		if chain {
			switch {
			case r.Mode != "":
				fmt.Fprintf(&line, "  (modes.%s)", r.Mode)
			case len(r.Chain) > 0:
				line.WriteString("  (")
				line.WriteString(strings.Join(r.Chain, " → "))
				line.WriteString(")")
			}
			if len(r.Dependents) > 0 {
				line.WriteString("  (used by ")
				line.WriteString(strings.Join(r.Dependents, ", "))
				line.WriteString(")")
			}
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// failures returns an error listing the queries that failed to resolve.
func failures(rows []render.Row) error {
	var msgs []string
	for _, r := range rows {
		if r.Error != "" {
			msgs = append(msgs, r.Key+": "+r.Error)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}
