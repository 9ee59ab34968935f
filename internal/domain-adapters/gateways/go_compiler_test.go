package gateways

import (
	"context"
	"strings"
	"testing"

	"github.com/quayside/shipwright/internal/domain/entities"
	"github.com/quayside/shipwright/internal/domain/interfaces/gateways"
)

func TestBuildArgs(t *testing.T) {
	spec := gateways.BuildSpec{
		Target:     entities.Target{OS: "linux", Arch: "amd64"},
		SourceDir:  "/src/tool",
		OutputPath: "/out/bin/linux/amd64/tool",
	}

	args := buildArgs(spec)

	want := []string{"build", "-trimpath", "-ldflags", "-s -w", "-o", "/out/bin/linux/amd64/tool", "."}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d: %v", len(want), len(args), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %q, got %q", i, want[i], args[i])
		}
	}
}

func TestBuildArgsWithExtraLdflags(t *testing.T) {
	spec := gateways.BuildSpec{
		Target:     entities.Target{OS: "darwin", Arch: "arm64"},
		OutputPath: "/out/tool",
		Ldflags:    []string{"-X main.version=v1.2.3"},
	}

	args := buildArgs(spec)

	found := false
	for i, a := range args {
		if a == "-ldflags" && i+1 < len(args) {
			found = true
			if args[i+1] != "-s -w -X main.version=v1.2.3" {
				t.Errorf("unexpected ldflags value: %q", args[i+1])
			}
		}
	}
	if !found {
		t.Error("expected -ldflags in build args")
	}
}

func TestBuildEnvInjectsCrossCompileVars(t *testing.T) {
	spec := gateways.BuildSpec{
		Target: entities.Target{OS: "windows", Arch: "arm64", Ext: ".exe"},
	}

	env := buildEnv(spec)

	assertEnvContains(t, env, "GOOS=windows")
	assertEnvContains(t, env, "GOARCH=arm64")
	assertEnvContains(t, env, "CGO_ENABLED=0")
}

func TestBuildEnvDoesNotMutateProcessEnvironment(t *testing.T) {
	spec := gateways.BuildSpec{
		Target: entities.Target{OS: "linux", Arch: "arm64"},
	}

	env1 := buildEnv(spec)

	spec.Target = entities.Target{OS: "darwin", Arch: "amd64"}
	env2 := buildEnv(spec)

	assertEnvContains(t, env1, "GOOS=linux")
	assertEnvContains(t, env2, "GOOS=darwin")
}

func assertEnvContains(t *testing.T, env []string, kv string) {
	t.Helper()
	for _, e := range env {
		if e == kv {
			return
		}
	}
	t.Errorf("expected %q in environment", kv)
}

func TestCheckFailsForMissingToolchain(t *testing.T) {
	c := &GoCompiler{goBin: "definitely-not-a-real-compiler-binary"}

	err := c.Check(context.Background())
	if err == nil {
		t.Fatal("expected error for missing toolchain binary")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error message: %v", err)
	}
}
