// Package gateways defines interfaces for external tool adapters.
package gateways

import (
	"context"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// BuildSpec carries the full per-target compiler configuration explicitly,
// so no process-wide mutable environment state is needed.
type BuildSpec struct {
	Target     entities.Target
	SourceDir  string
	OutputPath string
	Ldflags    []string
}

// Compiler defines the cross-compilation operations the pipeline depends on.
type Compiler interface {
	// Check verifies the toolchain binary is available.
	Check(ctx context.Context) error

	// ResolveDependencies downloads and reconciles the declared module
	// dependencies of the source tree being built.
	ResolveDependencies(ctx context.Context, sourceDir string) error

	// Build compiles one target. On success the binary exists at
	// spec.OutputPath; a non-nil error describes a failed compilation.
	Build(ctx context.Context, spec BuildSpec) error
}

// Archiver packages built binaries into compressed archives.
type Archiver interface {
	// ArchiveFile packages a single file, storing it under nameInArchive
	// (which may contain slashes to create a directory hierarchy).
	ArchiveFile(ctx context.Context, srcPath, archivePath, nameInArchive string) (*entities.Archive, error)

	// ArchiveDir packages an entire directory tree.
	ArchiveDir(ctx context.Context, srcDir, archivePath string) (*entities.Archive, error)
}
