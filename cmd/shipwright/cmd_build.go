// Package main provides the shipwright CLI for cross-platform build automation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/quayside/shipwright/internal/domain-adapters/gateways"
	orchestrators "github.com/quayside/shipwright/internal/domain-orchestrators"
	"github.com/quayside/shipwright/internal/domain/entities"
	"github.com/quayside/shipwright/internal/domain/interfaces"
	"github.com/quayside/shipwright/internal/domain/services"
	"github.com/quayside/shipwright/internal/external-adapters/yaml"
)

func runBuild(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "Path to manifest file (default: shipwright.yml if present)")
		outputDir  = fs.String("output-dir", "", "Output directory for built binaries (overrides manifest)")
		parallel   = fs.Int("parallel", 0, "Number of concurrent builds (overrides manifest)")
		strict     = fs.Bool("strict", false, "Exit non-zero if any target fails to build")
		verbose    = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shipwright build [options]

Cross-compile the tool for every configured target and package each
successful build into its own tar.gz archive. Archives unpack to
<os>/<arch>/<binary> and get SHA-256/SHA-512 checksum sidecars.

A failed target is reported and skipped; the remaining targets still
build and package. Use --strict to turn build failures into a non-zero
exit code.

Examples:
  shipwright build
  shipwright build --config ci/shipwright.yml --output-dir dist
  shipwright build --parallel 4 --strict

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	manifest := loadManifest(ctx, *configPath)
	manifest.Archive.Policy = entities.ArchivePolicyPerTarget
	applyOverrides(manifest, *outputDir, *parallel, *strict)

	fmt.Printf("📦 Building %s for %d targets\n\n", manifest.Tool, len(manifest.Targets))

	result := runPipeline(ctx, manifest, *verbose)

	printBuildSummary(manifest, result)

	if result.Failed() > 0 && manifest.Build.FailOnBuildError {
		os.Exit(1)
	}
}

// loadManifest resolves the manifest or exits.
func loadManifest(ctx context.Context, configPath string) *entities.Manifest {
	repo := yaml.NewManifestRepository()
	manifest, err := repo.Load(ctx, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return manifest
}

func applyOverrides(manifest *entities.Manifest, outputDir string, parallel int, strict bool) {
	if outputDir != "" {
		manifest.OutputDir = outputDir
	}
	if parallel > 0 {
		manifest.Build.Parallelism = parallel
	}
	if strict {
		manifest.Build.FailOnBuildError = true
	}
}

// runPipeline wires the orchestrator and runs it, exiting for stage-level
// failures. Build failures in lenient mode come back inside the result.
func runPipeline(ctx context.Context, manifest *entities.Manifest, verbose bool) *orchestrators.PipelineResult {
	var logger interfaces.Logger = &interfaces.NoOpLogger{}
	if verbose {
		logger = &interfaces.ConsoleLogger{}
	}

	orchestrator := orchestrators.NewPipelineOrchestrator(
		gateways.NewGoCompiler(),
		gateways.NewTarGzArchiver(),
		services.NewChecksumService(),
		logger,
	)

	result, err := orchestrator.Run(ctx, manifest)
	if err != nil && !errors.Is(err, orchestrators.ErrBuildFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return result
}

func printBuildSummary(manifest *entities.Manifest, result *orchestrators.PipelineResult) {
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 Build Summary: %s\n", manifest.Tool)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✅ Binaries built: %d of %d\n", result.Succeeded(), result.Attempted())

	if result.Failed() > 0 {
		fmt.Printf("❌ Failed targets: %d\n", result.Failed())
		for _, r := range result.Results {
			if !r.Success {
				fmt.Printf("   - %s\n", r.Target)
			}
		}
	}

	fmt.Printf("📦 Archives created: %d\n", len(result.Archives))
	for _, a := range result.Archives {
		fmt.Printf("   - %s (%s)\n", a.Name, formatSize(a.Size))
	}

	if v := result.Validation; v != nil && !v.IsReady() && v.SucceededCount > 0 {
		fmt.Printf("⚠️  %s\n", v.ErrorMessage())
	}

	if len(result.PackageErrs) > 0 {
		fmt.Printf("⚠️  Packaging failures: %d\n", len(result.PackageErrs))
		for _, pe := range result.PackageErrs {
			fmt.Printf("   - %s: %v\n", pe.ArchiveName, pe.Err)
		}
	}

	fmt.Printf("⏱️  Total time: %.1fs\n", result.Duration.Seconds())
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

func formatSize(bytes int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case bytes >= mib:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/float64(mib))
	case bytes >= kib:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/float64(kib))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
