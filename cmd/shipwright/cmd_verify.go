package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quayside/shipwright/internal/domain-adapters/gateways"
	"github.com/quayside/shipwright/internal/domain/services"
	"github.com/quayside/shipwright/internal/external-adapters/gpg"
)

func runVerify(_ context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		dir     = fs.String("dir", ".", "Directory containing release artifacts")
		tool    = fs.String("tool", "", "Only verify artifacts for this tool (name prefix)")
		keyPath = fs.String("key", "", "GPG public key file for signature verification")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shipwright verify [options]

Verify checksum sidecars (.sha256/.sha512) against their archives and,
when a GPG key is supplied, detached signatures (.asc/.sig) as well.

Examples:
  shipwright verify --dir ./bin
  shipwright verify --dir ./dist --tool widget
  shipwright verify --dir ./dist --key release-signing-key.asc

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	finder := gateways.NewFSArtifactFinder()
	artifacts, err := finder.Find(*dir, *tool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if artifacts.Total() == 0 {
		fmt.Fprintf(os.Stderr, "Error: no artifacts found in %s\n", *dir)
		os.Exit(1)
	}

	fmt.Printf("🔐 Verifying %d artifact(s) in %s\n\n", artifacts.Total(), *dir)

	failures := 0
	failures += verifyChecksums(artifacts.Checksums)
	failures += verifySignatures(artifacts.Signatures, *keyPath)

	fmt.Println()
	if failures > 0 {
		fmt.Printf("❌ Verification failed: %d problem(s)\n", failures)
		os.Exit(1)
	}
	fmt.Println("✅ All verifications passed")
}

func verifyChecksums(checksums []string) int {
	if len(checksums) == 0 {
		fmt.Println("⚠️  No checksum files found")
		return 0
	}

	checksumService := services.NewChecksumService()
	failures := 0

	for _, path := range checksums {
		name := filepath.Base(path)
		if err := checksumService.VerifyFile(path); err != nil {
			fmt.Printf("❌ %s: %v\n", name, err)
			failures++
			continue
		}
		fmt.Printf("✅ %s\n", name)
	}

	return failures
}

func verifySignatures(signatures []string, keyPath string) int {
	if len(signatures) == 0 {
		return 0
	}

	if keyPath == "" {
		fmt.Printf("⚠️  %d signature(s) found but no --key supplied, skipping\n", len(signatures))
		return 0
	}

	verifier := gpg.NewVerifier()
	if err := verifier.ImportKeyFromFile(keyPath); err != nil {
		fmt.Printf("❌ failed to import key %s: %v\n", keyPath, err)
		return len(signatures)
	}

	failures := 0
	for _, sigPath := range signatures {
		name := filepath.Base(sigPath)

		// The signed file sits next to its signature
		dataPath := strings.TrimSuffix(strings.TrimSuffix(sigPath, ".asc"), ".sig")
		if err := verifier.VerifySignatureFromFile(dataPath, sigPath); err != nil {
			fmt.Printf("❌ %s: %v\n", name, err)
			failures++
			continue
		}
		fmt.Printf("✅ %s\n", name)
	}

	return failures
}
