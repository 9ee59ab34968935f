package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "build":
		runBuild(ctx, os.Args[2:])
	case "release":
		runRelease(ctx, os.Args[2:])
	case "targets":
		runTargets(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shipwright - Cross-platform build and release automation for Go tools

Usage:
  shipwright <command> [options]

Commands:
  build     Cross-compile for every target and package per-target archives
  release   Build flat binaries, bundle them, and publish a GitHub release
  targets   List the build target matrix
  verify    Verify checksums and signatures of release artifacts

Use "shipwright <command> --help" for more information about a command.`)
}

// hostPlatform returns the <os>-<arch> name of the machine running the CLI.
func hostPlatform() string {
	return fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH)
}
