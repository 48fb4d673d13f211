/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for tokenref.
package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenref/internal/version"
)

// Cmd is the version cobra command that prints version and build information.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for tokenref.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	return write(cmd.OutOrStdout(), format, version.Info())
}

func write(w io.Writer, format string, info version.BuildInfo) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		line := "tokenref " + info.Version
		if info.GitCommit != "" {
			line += " (" + info.GitCommit
			if info.Dirty {
				line += ", dirty"
			}
			line += ")"
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}
}
