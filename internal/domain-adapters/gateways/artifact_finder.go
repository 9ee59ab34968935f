package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReleaseArtifacts groups the files that belong to one tool's release:
// archives plus their checksum and signature sidecars.
type ReleaseArtifacts struct {
	Archives   []string
	Checksums  []string
	Signatures []string
}

// Total returns the number of discovered files.
func (a *ReleaseArtifacts) Total() int {
	return len(a.Archives) + len(a.Checksums) + len(a.Signatures)
}

// FSArtifactFinder discovers release artifacts on the local filesystem.
type FSArtifactFinder struct{}

// NewFSArtifactFinder creates a new artifact finder.
func NewFSArtifactFinder() *FSArtifactFinder {
	return &FSArtifactFinder{}
}

// Find scans dir (non-recursively) for artifacts whose name starts with the
// tool prefix. Results are sorted by name within each category.
func (f *FSArtifactFinder) Find(dir, tool string) (*ReleaseArtifacts, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	artifacts := &ReleaseArtifacts{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if tool != "" && !strings.HasPrefix(name, tool) {
			continue
		}

		full := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".zip"):
			artifacts.Archives = append(artifacts.Archives, full)
		case strings.HasSuffix(name, ".sha256") || strings.HasSuffix(name, ".sha512"):
			artifacts.Checksums = append(artifacts.Checksums, full)
		case strings.HasSuffix(name, ".asc") || strings.HasSuffix(name, ".sig"):
			artifacts.Signatures = append(artifacts.Signatures, full)
		}
	}

	sort.Strings(artifacts.Archives)
	sort.Strings(artifacts.Checksums)
	sort.Strings(artifacts.Signatures)

	return artifacts, nil
}
