/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import "strings"

// Path is a dotted token path split into segments, e.g. ["core", "color", "primary"].
type Path []string

// ParsePath splits a dotted path. It fails on the empty string and on any
// empty segment (leading, trailing or doubled dots).
func ParsePath(s string) (Path, bool) {
	if s == "" {
		return nil, false
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, false
		}
	}
	return Path(segs), true
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path with key appended.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// HasPrefix reports whether p starts with every segment of prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, seg := range prefix {
		if p[i] != seg {
			return false
		}
	}
	return true
}
