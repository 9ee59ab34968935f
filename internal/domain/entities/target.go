// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"path"
)

// Target is one (operating system, architecture) pair the pipeline compiles for.
type Target struct {
	OS   string
	Arch string
	Ext  string // executable suffix, ".exe" on windows, empty elsewhere
}

// DefaultTargets returns the fixed, ordered build matrix:
// {windows, linux, darwin} x {amd64, arm64}. Only the windows entries carry
// an executable suffix.
func DefaultTargets() []Target {
	return []Target{
		{OS: "windows", Arch: "amd64", Ext: ".exe"},
		{OS: "windows", Arch: "arm64", Ext: ".exe"},
		{OS: "linux", Arch: "amd64"},
		{OS: "linux", Arch: "arm64"},
		{OS: "darwin", Arch: "amd64"},
		{OS: "darwin", Arch: "arm64"},
	}
}

// ExtFor returns the executable suffix for an operating system.
func ExtFor(os string) string {
	if os == "windows" {
		return ".exe"
	}
	return ""
}

// String returns the canonical <os>-<arch> name of the target.
func (t Target) String() string {
	return t.OS + "-" + t.Arch
}

// FlatName returns the flat binary name <tool>-<os>-<arch>[.ext].
func (t Target) FlatName(tool string) string {
	return fmt.Sprintf("%s-%s-%s%s", tool, t.OS, t.Arch, t.Ext)
}

// TreePath returns the slash-separated relative path <os>/<arch>/<tool>[.ext]
// used by the hierarchical output layout and inside per-target archives.
func (t Target) TreePath(tool string) string {
	return path.Join(t.OS, t.Arch, tool+t.Ext)
}

// ArchiveName returns the deterministic per-target archive name
// <tool>-<os>-<arch>.tar.gz.
func (t Target) ArchiveName(tool string) string {
	return fmt.Sprintf("%s-%s-%s.tar.gz", tool, t.OS, t.Arch)
}
