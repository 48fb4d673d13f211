/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mazznoer/csscolorparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/tokenref/resolver"
	"bennypowers.dev/tokenref/tree"
)

// AbsentLabel is shown in text output for a query with no value.
const AbsentLabel = "<absent>"

// Row holds computed display values for a single token or preset entry.
type Row struct {
	Key         string     `json:"key"`                   // Dotted path, or preset key
	Name        string     `json:"-"`                     // CSS variable name with prefix
	Type        string     `json:"type,omitempty"`        // Token type, "" if untyped
	Raw         string     `json:"raw,omitempty"`         // Value as written, references in {a.b} form
	Value       tree.Value `json:"value"`                 // Resolved value
	Description string     `json:"description,omitempty"` // Token description
	Chain       []string   `json:"chain,omitempty"`       // Paths followed, when more than one
	Dependents  []string   `json:"dependents,omitempty"`  // Tokens that reference this one
	Mode        string     `json:"mode,omitempty"`        // Set when a mode override answered
	Error       string     `json:"error,omitempty"`       // Resolution error, e.g. a cycle
	IsColor     bool       `json:"-"`                     // Whether Value is a parseable color
}

// Display returns the text form of the resolved value.
func (r Row) Display() string {
	if r.Value.IsAbsent() {
		return AbsentLabel
	}
	return r.Value.String()
}

// ComputeRows resolves each tree entry under mode and returns display rows.
// Resolution errors are recorded on the row rather than returned.
func ComputeRows(r *resolver.Resolver, entries []tree.Entry, mode, prefix string) []Row {
	graph := resolver.BuildDependencyGraph(r.Tree())
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		path := e.Path.String()
		row := Row{
			Key:         path,
			Name:        NameToCSSVar(path, prefix),
			Type:        e.Leaf.Type,
			Raw:         e.Leaf.Value.String(),
			Description: e.Leaf.Description,
			Dependents:  graph.Dependents(path),
		}
		row.setResolution(r.Trace(path, mode))
		rows = append(rows, row)
	}
	return rows
}

// QueryRow resolves a single path and returns its row.
func QueryRow(r *resolver.Resolver, path, mode, prefix string) Row {
	return QueryRows(r, []string{path}, mode, prefix)[0]
}

// QueryRows resolves each path in order and returns their rows.
func QueryRows(r *resolver.Resolver, paths []string, mode, prefix string) []Row {
	graph := resolver.BuildDependencyGraph(r.Tree())
	rows := make([]Row, 0, len(paths))
	for _, path := range paths {
		rows = append(rows, queryRow(r, graph, path, mode, prefix))
	}
	return rows
}

func queryRow(r *resolver.Resolver, graph *resolver.DependencyGraph, path, mode, prefix string) Row {
	row := Row{Key: path, Name: NameToCSSVar(path, prefix), Dependents: graph.Dependents(path)}
	if node, ok := r.Tree().Lookup(path); ok {
		if leaf, ok := node.(*tree.Leaf); ok {
			row.Type = leaf.Type
			row.Raw = leaf.Value.String()
			row.Description = leaf.Description
		}
	}
	row.setResolution(r.Trace(path, mode))
	return row
}

// ValueRows builds rows for already-resolved values, in keys order.
func ValueRows(values map[string]tree.Value, keys []string, prefix string) []Row {
	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		row := Row{Key: key, Name: NameToCSSVar(key, prefix), Value: values[key]}
		row.IsColor = isColor(row.Value)
		rows = append(rows, row)
	}
	return rows
}

func (row *Row) setResolution(res resolver.Resolution, err error) {
	row.Value = res.Value
	row.Mode = res.Mode
	if len(res.Chain) > 1 {
		row.Chain = res.Chain
	}
	if err != nil {
		row.Error = err.Error()
	}
	row.IsColor = isColor(row.Value)
}

func isColor(v tree.Value) bool {
	if v.Kind() != tree.KindString {
		return false
	}
	_, err := csscolorparser.Parse(v.String())
	return err == nil
}

// NameToCSSVar converts a dotted token path to a CSS variable name.
// e.g., "color.primary" with prefix "acme" → "--acme-color-primary"
func NameToCSSVar(path, prefix string) string {
	name := strings.ReplaceAll(path, ".", "-")
	if prefix != "" {
		return "--" + prefix + "-" + name
	}
	return "--" + name
}

// ColumnWidths calculates the max width needed for the key and type columns.
func ColumnWidths(rows []Row) (key, typ int) {
	key, typ = 3, 4 // minimums for headers
	for _, r := range rows {
		if len(r.Key) > key {
			key = len(r.Key)
		}
		if len(r.Type) > typ {
			typ = len(r.Type)
		}
	}
	return
}

// ColorSwatch returns a 24-bit ANSI color block for the given color value.
func ColorSwatch(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return ""
	}
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", r, g, b)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Table renders rows as an aligned table. Swatches are drawn only when
// swatches is true, so piped output stays plain.
func Table(w io.Writer, rows []Row, swatches bool) error {
	if len(rows) == 0 {
		return nil
	}
	keyW, typeW := ColumnWidths(rows)
	for _, r := range rows {
		typ := r.Type
		if typ == "" {
			typ = "-"
		}
		swatch := ""
		if swatches && r.IsColor {
			swatch = ColorSwatch(r.Value.String())
		}
		suffix := ""
		switch {
		case r.Error != "":
			suffix = "  (" + r.Error + ")"
		case len(r.Chain) > 0:
			suffix = "  → " + strings.Join(r.Chain[1:], " → ")
		case r.Mode != "":
			suffix = "  [" + r.Mode + "]"
		}
		if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s%s%s\n", keyW, r.Key, typeW, typ, swatch, r.Display(), suffix); err != nil {
			return err
		}
	}
	return nil
}

// JSON renders rows as an indented JSON array.
func JSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// CSS renders rows as CSS custom properties. Absent and composite values
// have no CSS form and are skipped.
func CSS(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, ":root {"); err != nil {
		return err
	}
	for _, r := range rows {
		if r.Value.IsAbsent() || r.Value.Kind() == tree.KindComposite {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %s;\n", r.Name, r.Value.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// Heading returns a title-cased section heading, with the mode when set.
// e.g., ("colors", "dark") → "Colors (dark)"
func Heading(name, mode string) string {
	title := toTitleCase(name)
	if mode != "" {
		return title + " (" + mode + ")"
	}
	return title
}

// toTitleCase converts a string to Title Case.
func toTitleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}
