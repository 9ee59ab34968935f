// Package orchestrators coordinates gateways and services into pipelines.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quayside/shipwright/internal/domain/entities"
	"github.com/quayside/shipwright/internal/domain/interfaces"
	"github.com/quayside/shipwright/internal/domain/interfaces/gateways"
	"github.com/quayside/shipwright/internal/domain/services"
)

// Stage-level failures. Precondition and dependency errors abort the
// pipeline; build errors abort only when FailOnBuildError is set.
var (
	ErrPrecondition         = errors.New("pipeline preconditions not met")
	ErrDependencyResolution = errors.New("dependency resolution failed")
	ErrBuildFailed          = errors.New("one or more targets failed to build")
)

// PackageError records a packaging failure for one archive. Packaging is
// fail-soft: remaining items still get packaged.
type PackageError struct {
	ArchiveName string
	Err         error
}

// PipelineResult is the complete outcome of one pipeline run, used by the
// commands to print summaries and decide exit codes.
type PipelineResult struct {
	Results     []entities.BuildResult
	Archives    []entities.Archive
	Checksums   []string
	PackageErrs []PackageError
	Duration    time.Duration

	// Validation compares the archive set against the successful builds.
	// Only set for the per-target archive policy.
	Validation *services.ReleaseValidation
}

// Attempted returns the number of build attempts.
func (r *PipelineResult) Attempted() int {
	return len(r.Results)
}

// Succeeded returns the number of successful builds.
func (r *PipelineResult) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed builds.
func (r *PipelineResult) Failed() int {
	return r.Attempted() - r.Succeeded()
}

// PipelineOrchestrator runs the build, packaging and checksum stages for a
// manifest. Publication is handled separately by the release command.
type PipelineOrchestrator struct {
	compiler  gateways.Compiler
	archiver  gateways.Archiver
	checksums *services.ChecksumService
	logger    interfaces.Logger
}

// NewPipelineOrchestrator creates a new pipeline orchestrator.
func NewPipelineOrchestrator(
	compiler gateways.Compiler,
	archiver gateways.Archiver,
	checksums *services.ChecksumService,
	logger interfaces.Logger,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		compiler:  compiler,
		archiver:  archiver,
		checksums: checksums,
		logger:    logger,
	}
}

// Run executes the pipeline for a manifest. Build failures are recorded per
// target and do not abort the run unless manifest.Build.FailOnBuildError is
// set, in which case the returned error wraps ErrBuildFailed (after all
// targets were attempted and the survivors packaged).
func (o *PipelineOrchestrator) Run(ctx context.Context, manifest *entities.Manifest) (*PipelineResult, error) {
	started := time.Now()

	if err := o.checkPreconditions(ctx, manifest); err != nil {
		return nil, err
	}

	o.logger.Info("resolving dependencies", interfaces.F("source", manifest.Source))
	if err := o.compiler.ResolveDependencies(ctx, manifest.Source); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyResolution, err)
	}

	results, err := o.buildAll(ctx, manifest)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{Results: results}
	o.packageAll(ctx, manifest, result)
	result.Duration = time.Since(started)

	if manifest.Build.FailOnBuildError && result.Failed() > 0 {
		return result, fmt.Errorf("%w: %d of %d targets", ErrBuildFailed, result.Failed(), result.Attempted())
	}

	return result, nil
}

// checkPreconditions verifies the toolchain and source tree before any
// build is attempted.
func (o *PipelineOrchestrator) checkPreconditions(ctx context.Context, manifest *entities.Manifest) error {
	if err := o.compiler.Check(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	info, err := os.Stat(manifest.Source)
	if err != nil {
		return fmt.Errorf("%w: source directory %s: %v", ErrPrecondition, manifest.Source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: source %s is not a directory", ErrPrecondition, manifest.Source)
	}

	if len(manifest.Targets) == 0 {
		return fmt.Errorf("%w: no build targets configured", ErrPrecondition)
	}

	return nil
}

// buildAll compiles every target. With Parallelism > 1 builds run on a
// bounded worker pool; each goroutine writes only its own result slot, so
// the result order always matches the target table regardless of scheduling.
func (o *PipelineOrchestrator) buildAll(ctx context.Context, manifest *entities.Manifest) ([]entities.BuildResult, error) {
	results := make([]entities.BuildResult, len(manifest.Targets))

	parallelism := manifest.Build.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	if parallelism == 1 {
		for i, target := range manifest.Targets {
			results[i] = o.buildOne(ctx, manifest, target)
			o.reportBuild(results[i])
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, target := range manifest.Targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = o.buildOne(gctx, manifest, target)
			return nil
		})
	}

	// Workers never return errors; failures live in the result slots.
	//nolint:errcheck,gosec // G104: Wait only propagates worker errors, and there are none
	g.Wait()

	for _, r := range results {
		o.reportBuild(r)
	}

	return results, nil
}

// buildOne compiles a single target into the layout the archive policy
// expects: <os>/<arch>/<tool> for per-target archives, flat
// <tool>-<os>-<arch> names for the aggregate archive.
func (o *PipelineOrchestrator) buildOne(ctx context.Context, manifest *entities.Manifest, target entities.Target) entities.BuildResult {
	started := time.Now()

	var rel string
	if manifest.Archive.Policy == entities.ArchivePolicyAggregate {
		rel = target.FlatName(manifest.Tool)
	} else {
		rel = filepath.FromSlash(target.TreePath(manifest.Tool))
	}

	// go build resolves -o relative to the source directory, so the
	// output path must be absolute.
	outputPath, err := filepath.Abs(filepath.Join(manifest.OutputDir, rel))
	if err != nil {
		return entities.BuildResult{
			Target:   target,
			Err:      fmt.Errorf("failed to resolve output path: %w", err),
			Duration: time.Since(started),
		}
	}

	o.logger.Debug("building target",
		interfaces.F("target", target.String()),
		interfaces.F("output", outputPath))

	err = o.compiler.Build(ctx, gateways.BuildSpec{
		Target:     target,
		SourceDir:  manifest.Source,
		OutputPath: outputPath,
		Ldflags:    manifest.Build.Ldflags,
	})

	return entities.BuildResult{
		Target:     target,
		OutputPath: outputPath,
		Success:    err == nil,
		Err:        err,
		Duration:   time.Since(started),
	}
}

func (o *PipelineOrchestrator) reportBuild(r entities.BuildResult) {
	if r.Success {
		fmt.Printf("✅ %s (%.1fs)\n", r.Target, r.Duration.Seconds())
	} else {
		fmt.Printf("❌ %s: %v\n", r.Target, r.Err)
	}
}

// packageAll runs the packaging stage for the manifest's archive policy.
// Packaging is fail-soft: one broken archive does not stop the others.
func (o *PipelineOrchestrator) packageAll(ctx context.Context, manifest *entities.Manifest, result *PipelineResult) {
	switch manifest.Archive.Policy {
	case entities.ArchivePolicyAggregate:
		o.packageAggregate(ctx, manifest, result)
	default:
		o.packagePerTarget(ctx, manifest, result)
	}
}

// packagePerTarget packages each successful build into its own archive,
// preserving the <os>/<arch>/<tool> hierarchy on extraction.
func (o *PipelineOrchestrator) packagePerTarget(ctx context.Context, manifest *entities.Manifest, result *PipelineResult) {
	for _, r := range result.Results {
		if !r.Success {
			continue
		}

		if _, err := os.Stat(r.OutputPath); err != nil {
			o.logger.Warn("binary missing, skipping archive",
				interfaces.F("target", r.Target.String()))
			continue
		}

		name := r.Target.ArchiveName(manifest.Tool)
		archivePath := filepath.Join(manifest.OutputDir, name)

		archive, err := o.archiver.ArchiveFile(ctx, r.OutputPath, archivePath, r.Target.TreePath(manifest.Tool))
		if err != nil {
			fmt.Printf("⚠️  failed to package %s: %v\n", name, err)
			result.PackageErrs = append(result.PackageErrs, PackageError{ArchiveName: name, Err: err})
			continue
		}

		result.Archives = append(result.Archives, *archive)
		o.generateChecksums(archive, result)
	}

	result.Validation = services.NewReleaseService().ValidatePerTarget(manifest.Tool, result.Results, result.Archives)
}

// packageAggregate packages the whole output directory into a single
// version-stamped archive written next to it.
func (o *PipelineOrchestrator) packageAggregate(ctx context.Context, manifest *entities.Manifest, result *PipelineResult) {
	if result.Succeeded() == 0 {
		o.logger.Warn("no successful builds, skipping aggregate archive")
		return
	}

	name := fmt.Sprintf("%s-%s.tar.gz", manifest.Tool, manifest.Version)
	archivePath := filepath.Join(filepath.Dir(manifest.OutputDir), name)

	archive, err := o.archiver.ArchiveDir(ctx, manifest.OutputDir, archivePath)
	if err != nil {
		fmt.Printf("⚠️  failed to package %s: %v\n", name, err)
		result.PackageErrs = append(result.PackageErrs, PackageError{ArchiveName: name, Err: err})
		return
	}

	result.Archives = append(result.Archives, *archive)
	o.generateChecksums(archive, result)
}

func (o *PipelineOrchestrator) generateChecksums(archive *entities.Archive, result *PipelineResult) {
	artifacts, err := o.checksums.GenerateAll(archive.Path)
	if err != nil {
		fmt.Printf("⚠️  failed to generate checksums for %s: %v\n", archive.Name, err)
		result.PackageErrs = append(result.PackageErrs, PackageError{ArchiveName: archive.Name, Err: err})
		return
	}
	result.Checksums = append(result.Checksums, artifacts.SHA256Path, artifacts.SHA512Path)
}
