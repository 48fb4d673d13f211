/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package search provides the search command for tokenref.
package search

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/cmd/render"
)

// Cmd is the search cobra command.
var Cmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tokens by path, value, or type",
	Long: `Search tokens by path, raw or resolved value, type or description, with
optional regex support. Values are resolved under --mode.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("name", false, "Search paths only")
	Cmd.Flags().Bool("value", false, "Search raw and resolved values only")
	Cmd.Flags().String("type", "", "Filter by token type")
	Cmd.Flags().Bool("regex", false, "Query is a regex")
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, names")
}

// Query describes what to match.
type Query struct {
	Text      string
	Pattern   *regexp.Regexp
	NameOnly  bool
	ValueOnly bool
	Type      string
}

func run(cmd *cobra.Command, args []string) error {
	q := Query{Text: args[0]}
	q.NameOnly, _ = cmd.Flags().GetBool("name")
	q.ValueOnly, _ = cmd.Flags().GetBool("value")
	q.Type, _ = cmd.Flags().GetString("type")
	useRegex, _ := cmd.Flags().GetBool("regex")
	format, _ := cmd.Flags().GetString("format")

	if useRegex {
		pattern, err := regexp.Compile(q.Text)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		q.Pattern = pattern
	}

	p, err := project.Open(cmd.Context())
	if err != nil {
		return err
	}

	rows := render.ComputeRows(p.Resolver, p.Tree.Leaves(), p.Mode, p.Prefix)
	matches := filterRows(rows, q)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return render.JSON(out, matches)
	case "names":
		return writeNames(out, matches)
	case "table":
		return render.Table(out, matches, render.IsTerminal(out))
	default:
		return fmt.Errorf("unknown format %q (want table, json or names)", format)
	}
}

// filterRows returns the rows matching q, in input order.
func filterRows(rows []render.Row, q Query) []render.Row {
	var matches []render.Row
	for _, r := range rows {
		if q.Type != "" && r.Type != q.Type {
			continue
		}

		var matched bool
		switch {
		case q.NameOnly:
			matched = matchString(r.Key, q.Text, q.Pattern)
		case q.ValueOnly:
			matched = matchString(r.Raw, q.Text, q.Pattern) ||
				matchString(resolved(r), q.Text, q.Pattern)
		default:
			matched = matchString(r.Key, q.Text, q.Pattern) ||
				matchString(r.Raw, q.Text, q.Pattern) ||
				matchString(resolved(r), q.Text, q.Pattern) ||
				matchString(r.Type, q.Text, q.Pattern) ||
				matchString(r.Description, q.Text, q.Pattern)
		}

		if matched {
			matches = append(matches, r)
		}
	}
	return matches
}

func resolved(r render.Row) string {
	if r.Value.IsAbsent() {
		return ""
	}
	return r.Value.String()
}

func matchString(s, query string, pattern *regexp.Regexp) bool {
	if pattern != nil {
		return pattern.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}

func writeNames(w io.Writer, rows []render.Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.Key); err != nil {
			return err
		}
	}
	return nil
}
