/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for tokenref.
package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check token references and mode overrides",
	Long: `Validate the merged token tree: report references to missing tokens or to
groups, circular references, and mode overrides of undefined tokens.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	quiet := viper.GetBool("quiet")

	p, err := project.Open(cmd.Context())
	if err != nil {
		return err
	}

	if !quiet {
		for _, spec := range p.Specs() {
			fmt.Fprintf(cmd.OutOrStdout(), "Validating %s...\n", spec)
		}
	}

	return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), p.Tree, strict, quiet)
}

// report writes the issues found in t and returns an error when validation
// fails: on any error, or on any warning when strict.
func report(out, errOut io.Writer, t *tree.Tree, strict, quiet bool) error {
	issues := resolver.Validate(t)

	var errs, warnings int
	for _, issue := range issues {
		if issue.Severity == resolver.SeverityWarning {
			warnings++
		} else {
			errs++
		}
		fmt.Fprintf(errOut, "%s: %s\n", issue.Severity, issue.Error())
	}

	if errs > 0 || (strict && warnings > 0) {
		return fmt.Errorf("validation failed: %d errors, %d warnings", errs, warnings)
	}

	if !quiet {
		fmt.Fprintf(out, "  %d tokens, %d modes, %d warnings\n", len(t.Leaves()), len(t.Modes()), warnings)
		fmt.Fprintln(out, "All tokens valid.")
	}
	return nil
}
