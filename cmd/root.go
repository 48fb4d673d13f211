/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tokenref.
package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenref/cmd/list"
	"bennypowers.dev/tokenref/cmd/preset"
	"bennypowers.dev/tokenref/cmd/resolve"
	"bennypowers.dev/tokenref/cmd/search"
	"bennypowers.dev/tokenref/cmd/serve"
	"bennypowers.dev/tokenref/cmd/validate"
	"bennypowers.dev/tokenref/cmd/version"
	"bennypowers.dev/tokenref/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tokenref",
	Short: "Resolve design token references",
	Long: `tokenref resolves design tokens by dotted path, following {a.b} references
and applying mode overrides such as light and dark themes.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool("verbose"))
		if viper.GetBool("quiet") {
			logger.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceP("tokens", "t", nil, "Token files, globs, npm: specifiers or URLs (default: config files)")
	flags.StringP("mode", "m", "", "Mode whose overrides apply (default: config mode)")
	flags.String("root", ".", "Project directory containing .config/tokenref.yaml")
	flags.String("prefix", "", "CSS variable prefix (default: config prefix)")
	flags.BoolP("quiet", "q", false, "Silence warnings")
	flags.BoolP("verbose", "v", false, "Print debug output")

	for _, name := range []string{"tokens", "mode", "root", "prefix", "quiet", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("TOKENREF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(preset.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
