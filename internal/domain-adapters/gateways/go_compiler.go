// Package gateways contains adapters that invoke external tools and services.
package gateways

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/quayside/shipwright/internal/domain/interfaces/gateways"
)

// GoCompiler invokes the Go toolchain for cross-compilation. Each build gets
// its own environment slice; the process environment is never mutated.
type GoCompiler struct {
	goBin string
}

// NewGoCompiler creates a compiler adapter using the `go` binary from PATH.
func NewGoCompiler() *GoCompiler {
	return &GoCompiler{goBin: "go"}
}

// Check verifies the Go toolchain is available.
func (c *GoCompiler) Check(_ context.Context) error {
	if _, err := exec.LookPath(c.goBin); err != nil {
		return fmt.Errorf("go toolchain not found in PATH: %w", err)
	}
	return nil
}

// ResolveDependencies downloads the source module's declared dependencies.
func (c *GoCompiler) ResolveDependencies(ctx context.Context, sourceDir string) error {
	cmd := exec.CommandContext(ctx, c.goBin, "mod", "download")
	cmd.Dir = sourceDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go mod download failed: %w\n%s", err, stderr.String())
	}
	return nil
}

// Build cross-compiles one target.
func (c *GoCompiler) Build(ctx context.Context, spec gateways.BuildSpec) error {
	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	//nolint:gosec // G204: arguments are constructed from the build spec
	cmd := exec.CommandContext(ctx, c.goBin, buildArgs(spec)...)
	cmd.Dir = spec.SourceDir
	cmd.Env = buildEnv(spec)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build failed for %s: %w\n%s", spec.Target, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// buildArgs returns the go build argument list for a spec: trimmed paths,
// stripped symbol tables, plus any manifest-supplied ldflags.
func buildArgs(spec gateways.BuildSpec) []string {
	ldflags := append([]string{"-s", "-w"}, spec.Ldflags...)

	return []string{
		"build",
		"-trimpath",
		"-ldflags", strings.Join(ldflags, " "),
		"-o", spec.OutputPath,
		".",
	}
}

// buildEnv returns the explicit environment for a spec. Cross-compilation is
// selected per invocation; CGO is disabled so binaries are statically linked.
func buildEnv(spec gateways.BuildSpec) []string {
	env := os.Environ()
	env = append(env,
		"GOOS="+spec.Target.OS,
		"GOARCH="+spec.Target.Arch,
		"CGO_ENABLED=0",
	)
	return env
}
