/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"errors"
	"strings"
)

// Sentinel errors for resolution and validation.
var (
	// ErrCircularReference indicates a reference chain that revisits a path.
	ErrCircularReference = errors.New("circular reference detected")

	// ErrUnresolvedReference indicates a reference to a path that does not exist.
	ErrUnresolvedReference = errors.New("unresolved token reference")

	// ErrReferenceToGroup indicates a reference to a group rather than a token.
	ErrReferenceToGroup = errors.New("reference points at a group")
)

// CycleError reports a circular reference chain such as a -> b -> a.
type CycleError struct {
	// Chain lists the visited paths; the last entry repeats an earlier one.
	Chain []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return ErrCircularReference.Error() + ": " + strings.Join(e.Chain, " -> ")
}

// Unwrap lets errors.Is match ErrCircularReference.
func (e *CycleError) Unwrap() error {
	return ErrCircularReference
}
