package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChecksumService_GenerateAll(t *testing.T) {
	svc := NewChecksumService()
	tmpDir := t.TempDir()

	archivePath := filepath.Join(tmpDir, "mytool-linux-amd64.tar.gz")
	if err := os.WriteFile(archivePath, []byte("fake archive contents"), 0600); err != nil {
		t.Fatalf("Failed to create test archive: %v", err)
	}

	artifacts, err := svc.GenerateAll(archivePath)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	if artifacts.SHA256Path != archivePath+".sha256" {
		t.Errorf("SHA256Path = %s", artifacts.SHA256Path)
	}
	if artifacts.SHA512Path != archivePath+".sha512" {
		t.Errorf("SHA512Path = %s", artifacts.SHA512Path)
	}

	// sha256sum-compatible format: "<hex>  <basename>\n"
	data, err := os.ReadFile(artifacts.SHA256Path)
	if err != nil {
		t.Fatalf("Failed to read checksum file: %v", err)
	}
	content := string(data)
	if !strings.HasSuffix(content, "  mytool-linux-amd64.tar.gz\n") {
		t.Errorf("Unexpected checksum format: %q", content)
	}
	if len(strings.Fields(content)[0]) != 64 {
		t.Errorf("SHA256 digest length = %d, want 64", len(strings.Fields(content)[0]))
	}
}

func TestChecksumService_VerifyFile_RoundTrip(t *testing.T) {
	svc := NewChecksumService()
	tmpDir := t.TempDir()

	archivePath := filepath.Join(tmpDir, "tool.tar.gz")
	if err := os.WriteFile(archivePath, []byte("payload"), 0600); err != nil {
		t.Fatal(err)
	}

	artifacts, err := svc.GenerateAll(archivePath)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	if err := svc.VerifyFile(artifacts.SHA256Path); err != nil {
		t.Errorf("VerifyFile(sha256) failed: %v", err)
	}
	if err := svc.VerifyFile(artifacts.SHA512Path); err != nil {
		t.Errorf("VerifyFile(sha512) failed: %v", err)
	}
}

func TestChecksumService_VerifyFile_Tampered(t *testing.T) {
	svc := NewChecksumService()
	tmpDir := t.TempDir()

	archivePath := filepath.Join(tmpDir, "tool.tar.gz")
	if err := os.WriteFile(archivePath, []byte("payload"), 0600); err != nil {
		t.Fatal(err)
	}

	artifacts, err := svc.GenerateAll(archivePath)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	// Modify the archive after the checksum was recorded
	if err := os.WriteFile(archivePath, []byte("tampered"), 0600); err != nil {
		t.Fatal(err)
	}

	err = svc.VerifyFile(artifacts.SHA256Path)
	if err == nil {
		t.Fatal("Expected checksum mismatch, got nil")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestChecksumService_VerifyFile_Malformed(t *testing.T) {
	svc := NewChecksumService()
	tmpDir := t.TempDir()

	checksumPath := filepath.Join(tmpDir, "tool.tar.gz.sha256")
	if err := os.WriteFile(checksumPath, []byte("not a checksum line with too many fields\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := svc.VerifyFile(checksumPath); err == nil {
		t.Fatal("Expected error for malformed checksum file, got nil")
	}
}

func TestChecksumService_VerifyFile_UnsupportedType(t *testing.T) {
	svc := NewChecksumService()
	tmpDir := t.TempDir()

	checksumPath := filepath.Join(tmpDir, "tool.tar.gz.md5")
	if err := os.WriteFile(checksumPath, []byte("abc  tool.tar.gz\n"), 0600); err != nil {
		t.Fatal(err)
	}

	err := svc.VerifyFile(checksumPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported checksum type") {
		t.Errorf("Expected unsupported type error, got: %v", err)
	}
}
