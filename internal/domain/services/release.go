// Package services contains domain logic with no external dependencies.
package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// ReleaseStatus represents the readiness status of a build for release.
type ReleaseStatus string

// Release validation statuses
const (
	StatusReady              ReleaseStatus = "ready"
	StatusNoArchives         ReleaseStatus = "no_archives"
	StatusMissingArchives    ReleaseStatus = "missing_archives"
	StatusUnexpectedArchives ReleaseStatus = "unexpected_archives"
)

// ReleaseValidation contains the validation result for a release.
type ReleaseValidation struct {
	Status             ReleaseStatus
	BuiltTargets       []entities.Target
	MissingArchives    []string
	UnexpectedArchives []string
	AttemptedCount     int
	SucceededCount     int
	ArchiveCount       int
}

// IsReady returns true if the archive set matches the successful builds.
func (rv *ReleaseValidation) IsReady() bool {
	return rv.Status == StatusReady
}

// ErrorMessage returns a human-readable error message if not ready.
func (rv *ReleaseValidation) ErrorMessage() string {
	switch rv.Status {
	case StatusReady:
		return ""
	case StatusNoArchives:
		return fmt.Sprintf("no archives produced (%d of %d builds succeeded)",
			rv.SucceededCount, rv.AttemptedCount)
	case StatusMissingArchives:
		return fmt.Sprintf("archives missing for built targets: %s",
			strings.Join(rv.MissingArchives, ", "))
	case StatusUnexpectedArchives:
		return fmt.Sprintf("archives reference targets that did not build: %s",
			strings.Join(rv.UnexpectedArchives, ", "))
	default:
		return "unknown status"
	}
}

// ReleaseService validates that a release only ships what was actually built.
type ReleaseService struct{}

// NewReleaseService creates a new release service.
func NewReleaseService() *ReleaseService {
	return &ReleaseService{}
}

// ValidatePerTarget checks that the per-target archive set corresponds
// exactly to the successful build results: one archive per succeeded target,
// none for failed targets.
func (s *ReleaseService) ValidatePerTarget(tool string, results []entities.BuildResult, archives []entities.Archive) *ReleaseValidation {
	validation := &ReleaseValidation{
		AttemptedCount: len(results),
		ArchiveCount:   len(archives),
	}

	produced := make(map[string]bool, len(archives))
	for _, a := range archives {
		produced[a.Name] = true
	}

	expected := make(map[string]bool, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		validation.SucceededCount++
		validation.BuiltTargets = append(validation.BuiltTargets, r.Target)

		name := r.Target.ArchiveName(tool)
		expected[name] = true
		if !produced[name] {
			validation.MissingArchives = append(validation.MissingArchives, name)
		}
	}

	for _, a := range archives {
		if !expected[a.Name] {
			validation.UnexpectedArchives = append(validation.UnexpectedArchives, a.Name)
		}
	}

	switch {
	case len(validation.UnexpectedArchives) > 0:
		validation.Status = StatusUnexpectedArchives
	case len(validation.MissingArchives) > 0:
		validation.Status = StatusMissingArchives
	case len(archives) == 0:
		validation.Status = StatusNoArchives
	default:
		validation.Status = StatusReady
	}

	return validation
}

// AssetPaths returns the ordered list of file paths to attach to a release:
// every archive in target-table order followed by the checksum sidecars.
func (s *ReleaseService) AssetPaths(archives []entities.Archive, checksums []string) []string {
	paths := make([]string, 0, len(archives)+len(checksums))
	for _, a := range archives {
		paths = append(paths, a.Path)
	}
	paths = append(paths, checksums...)
	return paths
}

// PendingAssets splits asset paths into those still to upload and those
// whose base name is already attached to the release, preserving order.
// Re-uploading an attached name would be rejected by the hosting service.
func (s *ReleaseService) PendingAssets(assets []string, attached []string) (pending, skipped []string) {
	attachedSet := make(map[string]bool, len(attached))
	for _, name := range attached {
		attachedSet[name] = true
	}

	for _, path := range assets {
		if attachedSet[filepath.Base(path)] {
			skipped = append(skipped, filepath.Base(path))
			continue
		}
		pending = append(pending, path)
	}
	return pending, skipped
}
