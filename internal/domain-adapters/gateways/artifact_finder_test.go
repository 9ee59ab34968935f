package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindCategorizesArtifacts(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"shipwright-v1.0.0.tar.gz",
		"shipwright-v1.0.0.tar.gz.sha256",
		"shipwright-v1.0.0.tar.gz.sha512",
		"shipwright-v1.0.0.tar.gz.asc",
		"other-tool.tar.gz",
		"README.md",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	finder := NewFSArtifactFinder()
	artifacts, err := finder.Find(tmpDir, "shipwright")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if len(artifacts.Archives) != 1 {
		t.Errorf("expected 1 archive, got %d: %v", len(artifacts.Archives), artifacts.Archives)
	}
	if len(artifacts.Checksums) != 2 {
		t.Errorf("expected 2 checksums, got %d: %v", len(artifacts.Checksums), artifacts.Checksums)
	}
	if len(artifacts.Signatures) != 1 {
		t.Errorf("expected 1 signature, got %d: %v", len(artifacts.Signatures), artifacts.Signatures)
	}
	if artifacts.Total() != 4 {
		t.Errorf("expected total 4, got %d", artifacts.Total())
	}
}

func TestFindWithoutToolPrefixReturnsAll(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"a.tar.gz", "b.tar.gz"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	finder := NewFSArtifactFinder()
	artifacts, err := finder.Find(tmpDir, "")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if len(artifacts.Archives) != 2 {
		t.Errorf("expected 2 archives, got %d", len(artifacts.Archives))
	}
	// Sorted order
	if filepath.Base(artifacts.Archives[0]) != "a.tar.gz" {
		t.Errorf("expected sorted order, got %v", artifacts.Archives)
	}
}

func TestFindSkipsSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()

	sub := filepath.Join(tmpDir, "nested")
	if err := os.MkdirAll(sub, 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "tool.tar.gz"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	finder := NewFSArtifactFinder()
	artifacts, err := finder.Find(tmpDir, "")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if artifacts.Total() != 0 {
		t.Errorf("expected no artifacts from subdirectories, got %d", artifacts.Total())
	}
}

func TestFindFailsForMissingDirectory(t *testing.T) {
	finder := NewFSArtifactFinder()
	if _, err := finder.Find(filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
