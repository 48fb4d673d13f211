/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/tokenref/tree"
)

// Severity grades a validation issue.
type Severity int

const (
	// SeverityError marks an issue that makes a token unresolvable.
	SeverityError Severity = iota

	// SeverityWarning marks a suspicious but harmless definition.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ValidationError describes one problem in a token tree.
type ValidationError struct {
	// Path is the dotted path of the offending token or override.
	Path string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
	// Severity grades the issue.
	Severity Severity
	// Err is the sentinel the issue corresponds to, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the sentinel error, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every reference and mode override in t. It reports
// references to missing paths, circular references, and, as warnings,
// references to groups and overrides for paths the tree does not define.
// Issues are ordered by severity, then path.
func Validate(t *tree.Tree) []ValidationError {
	var issues []ValidationError

	for _, e := range t.Leaves() {
		if !e.Leaf.Value.IsReference() {
			continue
		}
		target := e.Leaf.Value.Reference()
		node, ok := t.LookupPath(target)
		switch {
		case !ok:
			issues = append(issues, ValidationError{
				Path:       e.Path.String(),
				Message:    fmt.Sprintf("references missing token %q", target.String()),
				Suggestion: "define the token or fix the reference",
				Err:        ErrUnresolvedReference,
			})
		case isGroup(node):
			issues = append(issues, ValidationError{
				Path:       e.Path.String(),
				Message:    fmt.Sprintf("references group %q", target.String()),
				Suggestion: "resolves to the whole group; reference a token inside it for a single value",
				Severity:   SeverityWarning,
				Err:        ErrReferenceToGroup,
			})
		}
	}

	for _, cycle := range BuildDependencyGraph(t).Cycles() {
		issues = append(issues, ValidationError{
			Path:    cycle[0],
			Message: "circular reference: " + strings.Join(cycle, " -> "),
			Err:     ErrCircularReference,
		})
	}

	for _, mode := range t.Modes() {
		for path, v := range t.Overrides(mode) {
			label := tree.ModesKey + "." + mode + "[" + path + "]"
			if _, ok := t.Lookup(path); !ok {
				issues = append(issues, ValidationError{
					Path:       label,
					Message:    fmt.Sprintf("overrides %q, which is not defined", path),
					Suggestion: "overrides apply only when the path is queried exactly",
					Severity:   SeverityWarning,
				})
			}
			if v.Kind() == tree.KindString {
				if _, isRef := tree.ParseReference(v.String()); isRef {
					issues = append(issues, ValidationError{
						Path:       label,
						Message:    fmt.Sprintf("override %q looks like a reference", v.String()),
						Suggestion: "override values are returned as-is; use a literal value",
						Severity:   SeverityWarning,
					})
				}
			}
		}
	}

	slices.SortStableFunc(issues, func(a, b ValidationError) int {
		return cmp.Or(
			cmp.Compare(a.Severity, b.Severity),
			strings.Compare(a.Path, b.Path),
			strings.Compare(a.Message, b.Message),
		)
	})
	return issues
}

func isGroup(n tree.Node) bool {
	_, ok := n.(*tree.Group)
	return ok
}
