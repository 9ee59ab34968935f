package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/quayside/shipwright/internal/external-adapters/yaml"
)

func runTargets(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("targets", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to manifest file (default: shipwright.yml if present)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shipwright targets [options]

List the build target matrix in the order targets are built.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	repo := yaml.NewManifestRepository()
	manifest, err := repo.Load(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	host := hostPlatform()

	fmt.Printf("Build targets for %s:\n\n", manifest.Tool)
	for _, target := range manifest.Targets {
		marker := " "
		if target.String() == host {
			marker = "*"
		}
		fmt.Printf("%s %-16s %s\n", marker, target.String(), target.FlatName(manifest.Tool))
	}
	fmt.Println("\n(* = current platform)")
}
