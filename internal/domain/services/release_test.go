package services

import (
	"errors"
	"testing"

	"github.com/quayside/shipwright/internal/domain/entities"
)

func result(os, arch string, ok bool) entities.BuildResult {
	r := entities.BuildResult{
		Target:  entities.Target{OS: os, Arch: arch, Ext: entities.ExtFor(os)},
		Success: ok,
	}
	if !ok {
		r.Err = errors.New("compile failed")
	}
	return r
}

func TestReleaseService_ValidatePerTarget_Ready(t *testing.T) {
	svc := NewReleaseService()

	results := []entities.BuildResult{
		result("windows", "amd64", true),
		result("linux", "amd64", true),
	}
	archives := []entities.Archive{
		{Name: "mytool-windows-amd64.tar.gz"},
		{Name: "mytool-linux-amd64.tar.gz"},
	}

	v := svc.ValidatePerTarget("mytool", results, archives)

	if !v.IsReady() {
		t.Fatalf("Validation not ready: %s", v.ErrorMessage())
	}
	if v.SucceededCount != 2 || v.AttemptedCount != 2 {
		t.Errorf("Counts = %d/%d, want 2/2", v.SucceededCount, v.AttemptedCount)
	}
	if v.ArchiveCount != 2 {
		t.Errorf("ArchiveCount = %d, want 2", v.ArchiveCount)
	}
}

// A failed target must not require an archive, and the validation must not
// flag the release as broken because of it.
func TestReleaseService_ValidatePerTarget_FailedTargetSkipped(t *testing.T) {
	svc := NewReleaseService()

	results := []entities.BuildResult{
		result("windows", "amd64", true),
		result("linux", "amd64", false),
	}
	archives := []entities.Archive{
		{Name: "mytool-windows-amd64.tar.gz"},
	}

	v := svc.ValidatePerTarget("mytool", results, archives)

	if !v.IsReady() {
		t.Fatalf("Validation not ready: %s", v.ErrorMessage())
	}
	if v.SucceededCount != 1 {
		t.Errorf("SucceededCount = %d, want 1", v.SucceededCount)
	}
}

// An archive for a target that never built successfully is a defect.
func TestReleaseService_ValidatePerTarget_UnexpectedArchive(t *testing.T) {
	svc := NewReleaseService()

	results := []entities.BuildResult{
		result("linux", "amd64", false),
	}
	archives := []entities.Archive{
		{Name: "mytool-linux-amd64.tar.gz"},
	}

	v := svc.ValidatePerTarget("mytool", results, archives)

	if v.IsReady() {
		t.Fatal("Expected validation failure for unexpected archive")
	}
	if v.Status != StatusUnexpectedArchives {
		t.Errorf("Status = %s, want %s", v.Status, StatusUnexpectedArchives)
	}
	if len(v.UnexpectedArchives) != 1 {
		t.Errorf("UnexpectedArchives = %v, want one entry", v.UnexpectedArchives)
	}
}

func TestReleaseService_ValidatePerTarget_MissingArchive(t *testing.T) {
	svc := NewReleaseService()

	results := []entities.BuildResult{
		result("linux", "amd64", true),
		result("linux", "arm64", true),
	}
	archives := []entities.Archive{
		{Name: "mytool-linux-amd64.tar.gz"},
	}

	v := svc.ValidatePerTarget("mytool", results, archives)

	if v.Status != StatusMissingArchives {
		t.Errorf("Status = %s, want %s", v.Status, StatusMissingArchives)
	}
	if len(v.MissingArchives) != 1 || v.MissingArchives[0] != "mytool-linux-arm64.tar.gz" {
		t.Errorf("MissingArchives = %v", v.MissingArchives)
	}
}

func TestReleaseService_ValidatePerTarget_NoArchives(t *testing.T) {
	svc := NewReleaseService()

	v := svc.ValidatePerTarget("mytool", []entities.BuildResult{result("linux", "amd64", false)}, nil)

	if v.Status != StatusNoArchives {
		t.Errorf("Status = %s, want %s", v.Status, StatusNoArchives)
	}
}

// The attach list is every archive followed by the checksum sidecars, in
// stable order.
func TestReleaseService_AssetPaths(t *testing.T) {
	svc := NewReleaseService()

	archives := []entities.Archive{
		{Name: "a.tar.gz", Path: "bin/a.tar.gz"},
		{Name: "b.tar.gz", Path: "bin/b.tar.gz"},
	}
	checksums := []string{"bin/a.tar.gz.sha256", "bin/b.tar.gz.sha256"}

	paths := svc.AssetPaths(archives, checksums)

	want := []string{"bin/a.tar.gz", "bin/b.tar.gz", "bin/a.tar.gz.sha256", "bin/b.tar.gz.sha256"}
	if len(paths) != len(want) {
		t.Fatalf("AssetPaths returned %d paths, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

// Re-running a release must not re-upload assets the release already has.
func TestReleaseService_PendingAssets(t *testing.T) {
	svc := NewReleaseService()

	assets := []string{
		"dist/tool-v1.0.0.tar.gz",
		"dist/tool-v1.0.0.tar.gz.sha256",
		"dist/tool-v1.0.0.tar.gz.sha512",
	}
	attached := []string{"tool-v1.0.0.tar.gz", "tool-v1.0.0.tar.gz.sha512"}

	pending, skipped := svc.PendingAssets(assets, attached)

	if len(pending) != 1 || pending[0] != "dist/tool-v1.0.0.tar.gz.sha256" {
		t.Errorf("pending = %v, want the sha256 sidecar only", pending)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want 2 entries", skipped)
	}
	if skipped[0] != "tool-v1.0.0.tar.gz" || skipped[1] != "tool-v1.0.0.tar.gz.sha512" {
		t.Errorf("skipped = %v, order not preserved", skipped)
	}
}

func TestReleaseService_PendingAssets_NothingAttached(t *testing.T) {
	svc := NewReleaseService()

	assets := []string{"dist/a.tar.gz", "dist/a.tar.gz.sha256"}
	pending, skipped := svc.PendingAssets(assets, nil)

	if len(pending) != 2 || len(skipped) != 0 {
		t.Errorf("pending = %v, skipped = %v, want all pending", pending, skipped)
	}
}

func TestReleaseService_PendingAssets_FullyAttached(t *testing.T) {
	svc := NewReleaseService()

	assets := []string{"dist/a.tar.gz"}
	pending, skipped := svc.PendingAssets(assets, []string{"a.tar.gz"})

	if len(pending) != 0 {
		t.Errorf("pending = %v, want none for a fully populated release", pending)
	}
	if len(skipped) != 1 {
		t.Errorf("skipped = %v, want 1 entry", skipped)
	}
}
