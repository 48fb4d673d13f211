/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides version information for the tokenref CLI.
package version

import (
	"runtime/debug"
)

// Set at build time via -ldflags "-X bennypowers.dev/tokenref/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

// Get returns the version string for the application.
func Get() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	if commit, dirty := vcs(); commit != "" {
		v := "dev-" + shortCommit(commit)
		if dirty {
			v += "-dirty"
		}
		return v
	}
	return "dev"
}

// Info returns detailed build information.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Get(),
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
	commit, dirty := vcs()
	if info.GitCommit == "" {
		info.GitCommit = commit
	}
	info.Dirty = dirty
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
	}
	return info
}

// vcs reads the revision the toolchain stamped into the binary.
func vcs() (commit string, dirty bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return commit, dirty
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
