/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package fs provides the filesystem abstraction token loading reads through.
package fs

import (
	"io/fs"
	"os"
)

// FileSystem is the read-only view of a filesystem that config and token
// loading need. It embeds fs.FS so it can be walked with fs.WalkDir.
type FileSystem interface {
	fs.FS

	// ReadFile reads the named file.
	ReadFile(name string) ([]byte, error)

	// ReadDir reads the named directory.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Stat returns file information for the named file.
	Stat(name string) (fs.FileInfo, error)

	// Exists reports whether the path exists.
	Exists(path string) bool
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

// NewOSFileSystem creates a filesystem backed by the os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads the entire contents of a file.
func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadDir reads the named directory and returns its entries.
func (f *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns file information for the named file.
func (f *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Exists returns true if the path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens the named file for reading.
func (f *OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}
