package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quayside/shipwright/internal/domain/entities"
)

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.yml")
	if err := os.WriteFile(path, []byte("tool: widget\nversion: v3.0.0\n"), 0600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	repo := NewManifestRepository()
	manifest, err := repo.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if manifest.Tool != "widget" || manifest.Version != "v3.0.0" {
		t.Errorf("unexpected manifest: %+v", manifest)
	}
}

func TestLoadExplicitMissingPathFails(t *testing.T) {
	repo := NewManifestRepository()
	_, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit manifest")
	}
}

func TestLoadMissingDefaultFallsBackToBuiltins(t *testing.T) {
	// Run from an empty directory with no shipwright.yml
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	repo := NewManifestRepository()
	manifest, err := repo.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if manifest.Tool != filepath.Base(tmpDir) {
		t.Errorf("expected tool named after working directory, got %s", manifest.Tool)
	}
	if manifest.Archive.Policy != entities.ArchivePolicyPerTarget {
		t.Errorf("unexpected policy: %s", manifest.Archive.Policy)
	}
}

func TestLoadPicksUpDefaultFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, DefaultManifestFile), []byte("tool: widget\n"), 0600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	chdir(t, tmpDir)

	repo := NewManifestRepository()
	manifest, err := repo.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if manifest.Tool != "widget" {
		t.Errorf("expected manifest from default file, got tool %s", manifest.Tool)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		//nolint:errcheck,gosec // G104: best effort restore
		os.Chdir(old)
	})
}
