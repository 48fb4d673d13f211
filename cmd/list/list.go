/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package list provides the list command for tokenref.
package list

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"bennypowers.dev/tokenref/cmd/project"
	"bennypowers.dev/tokenref/cmd/render"
	"bennypowers.dev/tokenref/tree"
)

// Cmd is the list cobra command.
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List tokens with their resolved values",
	Long: `List every token with its value as written and its resolved value.

Examples:
  tokenref list --group core.color
  tokenref list --select '$.core.spacing' --format css
  tokenref list --mode dark --format json`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("group", "", "Only tokens under this dotted path")
	Cmd.Flags().String("select", "", "Only tokens under paths matched by a JSONPath expression")
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, css")
}

func run(cmd *cobra.Command, args []string) error {
	group, _ := cmd.Flags().GetString("group")
	selector, _ := cmd.Flags().GetString("select")
	format, _ := cmd.Flags().GetString("format")

	p, err := project.Open(cmd.Context())
	if err != nil {
		return err
	}

	var selected []tree.Path
	if selector != "" {
		selected, err = selectPaths(p.Tree.Raw(), selector)
		if err != nil {
			return err
		}
	}

	entries, err := filterEntries(p.Tree.Leaves(), group, selected, selector != "")
	if err != nil {
		return err
	}

	rows := render.ComputeRows(p.Resolver, entries, p.Mode, p.Prefix)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return render.JSON(out, rows)
	case "css":
		return render.CSS(out, rows)
	case "table":
		return render.Table(out, rows, render.IsTerminal(out))
	default:
		return fmt.Errorf("unknown format %q (want table, json or css)", format)
	}
}

// filterEntries keeps entries under group and, when filterSelected is set,
// entries related to one of the selected paths.
func filterEntries(entries []tree.Entry, group string, selected []tree.Path, filterSelected bool) ([]tree.Entry, error) {
	var groupPath tree.Path
	if group != "" {
		var ok bool
		groupPath, ok = tree.ParsePath(group)
		if !ok {
			return nil, fmt.Errorf("invalid group path %q", group)
		}
	}

	result := make([]tree.Entry, 0, len(entries))
	for _, e := range entries {
		if groupPath != nil && !e.Path.HasPrefix(groupPath) {
			continue
		}
		if filterSelected && !related(e.Path, selected) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// related reports whether p lies under one of the selected paths, or a
// selected path lies inside p (such as the value field of a token).
func related(p tree.Path, selected []tree.Path) bool {
	for _, s := range selected {
		if p.HasPrefix(s) || s.HasPrefix(p) {
			return true
		}
	}
	return false
}

// selectPaths evaluates a JSONPath expression against the raw token
// document and returns the dotted paths of the matched locations.
func selectPaths(raw map[string]any, selector string) ([]tree.Path, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", selector, err)
	}

	var paths []tree.Path
	for _, loc := range x.Locate(raw, 0) {
		var p tree.Path
		for _, frag := range loc {
			if child, ok := frag.(jp.Child); ok {
				p = append(p, string(child))
			}
		}
		if len(p) > 0 {
			paths = append(paths, p)
		}
	}
	return paths, nil
}
