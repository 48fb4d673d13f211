/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	tokfs "bennypowers.dev/tokenref/fs"
)

// Kind indicates where a token source lives.
type Kind int

const (
	// KindLocal is a file path.
	KindLocal Kind = iota
	// KindNPM is an npm:<package>/<file> specifier.
	KindNPM
	// KindURL is an http or https URL.
	KindURL
	// KindJSR is a jsr:@scope/<package>/<file> specifier, installed through
	// the npm compatibility layer.
	KindJSR
)

// Specifier is a parsed token source.
type Specifier struct {
	// Kind is the type of source.
	Kind Kind

	// Package is the package name (e.g., "@scope/pkg"); npm and jsr only.
	Package string

	// File is the path within the package (npm) or the file path (local).
	File string

	// Raw is the original specifier string.
	Raw string
}

// npmPattern matches npm:@scope/pkg/path, npm:pkg/path, or bare npm:pkg
var npmPattern = regexp.MustCompile(`^npm:(@[^/]+/[^/]+|[^/@][^/]*)(/.*)?$`)

// jsrPattern matches jsr:@scope/pkg/path; JSR packages are always scoped.
var jsrPattern = regexp.MustCompile(`^jsr:(@[^/]+/[^/]+)(/.*)?$`)

// ParseSpecifier classifies a token source string.
func ParseSpecifier(spec string) Specifier {
	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		return Specifier{Kind: KindURL, Raw: spec}
	}
	if m := npmPattern.FindStringSubmatch(spec); m != nil {
		return Specifier{
			Kind:    KindNPM,
			Package: m[1],
			File:    strings.TrimPrefix(m[2], "/"),
			Raw:     spec,
		}
	}
	if m := jsrPattern.FindStringSubmatch(spec); m != nil {
		return Specifier{
			Kind:    KindJSR,
			Package: m[1],
			File:    strings.TrimPrefix(m[2], "/"),
			Raw:     spec,
		}
	}
	return Specifier{Kind: KindLocal, File: spec, Raw: spec}
}

// CDNURL returns the unpkg.com URL for an npm specifier with a file part.
func (s Specifier) CDNURL() (string, bool) {
	if s.Kind != KindNPM || s.Package == "" || s.File == "" {
		return "", false
	}
	return "https://unpkg.com/" + s.Package + "/" + s.File, true
}

// resolvePackage finds the package file in the nearest node_modules,
// walking up from rootDir. jsr: packages live under node_modules/@jsr with
// @scope/pkg renamed to scope__pkg.
func resolvePackage(filesystem tokfs.FileSystem, rootDir string, s Specifier) (string, error) {
	if s.File == "" {
		return "", fmt.Errorf("%s names no file", s.Raw)
	}

	pkg := s.Package
	if s.Kind == KindJSR {
		pkg = filepath.Join("@jsr", jsrToNPMCompatPackage(s.Package))
	}

	dir := rootDir
	for {
		base := filepath.Join(dir, "node_modules")
		candidate := filepath.Clean(filepath.Join(base, pkg, s.File))
		if !isInsideDir(candidate, base) {
			return "", fmt.Errorf("path traversal detected in specifier: %s", s.Raw)
		}
		if filesystem.Exists(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("package not found: %s (looked in node_modules starting from %s)", s.Package, rootDir)
}

// jsrToNPMCompatPackage converts @scope/pkg to scope__pkg.
func jsrToNPMCompatPackage(pkg string) string {
	scoped, _ := strings.CutPrefix(pkg, "@")
	return strings.Replace(scoped, "/", "__", 1)
}

func isInsideDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
