package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quayside/shipwright/internal/domain-adapters/gateways"
	orchestrators "github.com/quayside/shipwright/internal/domain-orchestrators"
	"github.com/quayside/shipwright/internal/domain/entities"
	domainGateways "github.com/quayside/shipwright/internal/domain/interfaces/gateways"
	"github.com/quayside/shipwright/internal/domain/services"
)

func runRelease(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("release", flag.ExitOnError)
	var (
		version    = fs.String("version", entities.DefaultVersion, "Release version tag (e.g. v1.2.3)")
		title      = fs.String("title", "", "Release title (default: \"<tool> <version>\")")
		draft      = fs.Bool("draft", false, "Create as draft release")
		owner      = fs.String("owner", "", "GitHub repository owner (overrides manifest)")
		repo       = fs.String("repo", "", "GitHub repository name (overrides manifest)")
		configPath = fs.String("config", "", "Path to manifest file (default: shipwright.yml if present)")
		parallel   = fs.Int("parallel", 0, "Number of concurrent builds (overrides manifest)")
		strict     = fs.Bool("strict", false, "Exit non-zero if any target fails to build")
		dryRun     = fs.Bool("dry-run", false, "Build and package but skip GitHub publication")
		verbose    = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shipwright release [options]

Cross-compile flat-named binaries (<tool>-<os>-<arch>), bundle everything
into a single version-stamped tar.gz with checksum sidecars, and publish
a GitHub release with auto-generated notes.

Publication is all-or-nothing for the release itself: a failed create
aborts with a non-zero exit. If a release for the tag already exists,
the archive and checksums are attached to it.

Examples:
  shipwright release --version v1.2.3
  shipwright release --version v1.2.3 --draft --title "Maintenance release"
  shipwright release --version v1.2.3 --owner quayside --repo widget
  shipwright release --version v1.2.3 --dry-run

Environment:
  GITHUB_TOKEN    GitHub personal access token (required unless --dry-run)

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: GITHUB_TOKEN environment variable is required (not needed for --dry-run)\n")
		os.Exit(1)
	}

	manifest := loadManifest(ctx, *configPath)
	manifest.Archive.Policy = entities.ArchivePolicyAggregate
	manifest.Version = *version
	applyOverrides(manifest, "", *parallel, *strict)
	if *owner != "" {
		manifest.Release.Owner = *owner
	}
	if *repo != "" {
		manifest.Release.Repo = *repo
	}

	if !*dryRun && (manifest.Release.Owner == "" || manifest.Release.Repo == "") {
		fmt.Fprintf(os.Stderr, "Error: release owner and repo are required (set them in the manifest or pass --owner/--repo)\n")
		os.Exit(1)
	}

	fmt.Printf("🚀 Releasing %s %s\n\n", manifest.Tool, manifest.Version)

	result := runPipeline(ctx, manifest, *verbose)

	if result.Failed() > 0 && manifest.Build.FailOnBuildError {
		printReleaseSummary(manifest, result, nil, *dryRun)
		os.Exit(1)
	}

	if len(result.Archives) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no archive produced, nothing to release\n")
		os.Exit(1)
	}

	releaseService := services.NewReleaseService()
	assets := releaseService.AssetPaths(result.Archives, result.Checksums)
	plan := releasePlan(manifest, *title, *draft, assets)

	var published *domainGateways.PublishedRelease
	if *dryRun {
		fmt.Printf("📦 Dry run: would publish %d asset(s) to %s/%s@%s\n",
			len(plan.Assets), manifest.Release.Owner, manifest.Release.Repo, plan.Tag)
		for _, a := range plan.Assets {
			fmt.Printf("   - %s\n", filepath.Base(a))
		}
	} else {
		published = publishRelease(ctx, token, manifest, plan)
	}

	printReleaseSummary(manifest, result, published, *dryRun)
}

// releasePlan fills in the release to publish, defaulting the title to
// "<tool> <version>".
func releasePlan(manifest *entities.Manifest, title string, draft bool, assets []string) entities.Release {
	if title == "" {
		title = fmt.Sprintf("%s %s", manifest.Tool, manifest.Version)
	}
	return entities.Release{
		Tag:    manifest.Version,
		Title:  title,
		Draft:  draft,
		Assets: assets,
	}
}

// publishRelease creates (or reuses) the GitHub release and attaches every
// asset not already present. A failed create is fatal; so is failing every
// remaining upload.
func publishRelease(ctx context.Context, token string, manifest *entities.Manifest, plan entities.Release) *domainGateways.PublishedRelease {
	publisher := gateways.NewHTTPGitHubGateway(token)

	owner, repo := manifest.Release.Owner, manifest.Release.Repo

	var attached []string
	release, err := publisher.GetRelease(ctx, owner, repo, plan.Tag)
	if err == nil {
		fmt.Printf("📦 Release %s already exists, attaching assets\n", plan.Tag)
		existing, listErr := publisher.ListReleaseAssets(ctx, owner, repo, release.ID)
		if listErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", listErr)
			os.Exit(1)
		}
		fmt.Printf("📦 Existing release has %d asset(s)\n", len(existing))
		for _, a := range existing {
			attached = append(attached, a.Name)
		}
	} else {
		fmt.Printf("🚀 Creating release %s...\n", plan.Tag)
		release, err = publisher.CreateRelease(ctx, owner, repo, &domainGateways.ReleaseRequest{
			TagName:       plan.Tag,
			Title:         plan.Title,
			Draft:         plan.Draft,
			GenerateNotes: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	pending, skipped := services.NewReleaseService().PendingAssets(plan.Assets, attached)
	for _, name := range skipped {
		fmt.Printf("📦 %s already attached, skipping\n", name)
	}

	uploaded := uploadAssets(ctx, publisher, release.UploadURL, pending)
	if uploaded == 0 && len(pending) > 0 {
		fmt.Fprintf(os.Stderr, "Error: all %d asset uploads failed\n", len(pending))
		os.Exit(1)
	}

	return release
}

// uploadAssets attaches each file to the release, reporting progress.
// Returns the number of successful uploads.
func uploadAssets(ctx context.Context, publisher domainGateways.ReleasePublisher, uploadURL string, assets []string) int {
	uploaded := 0
	for _, path := range assets {
		name := filepath.Base(path)

		//nolint:gosec // G304: path comes from the packaging stage
		f, err := os.Open(path)
		if err != nil {
			fmt.Printf("⚠️  %s: %v\n", name, err)
			continue
		}

		asset, err := publisher.UploadAsset(ctx, uploadURL, name, f)
		//nolint:errcheck,gosec // G104: best effort close after upload
		f.Close()

		if err != nil {
			fmt.Printf("⚠️  %s: %v\n", name, err)
			continue
		}

		fmt.Printf("✅ Uploaded %s (%s)\n", asset.Name, formatSize(asset.Size))
		uploaded++
	}
	return uploaded
}

func printReleaseSummary(manifest *entities.Manifest, result *orchestrators.PipelineResult, published *domainGateways.PublishedRelease, dryRun bool) {
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 Release Summary: %s %s\n", manifest.Tool, manifest.Version)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✅ Binaries built: %d of %d\n", result.Succeeded(), result.Attempted())

	if result.Failed() > 0 {
		failed := make([]string, 0, result.Failed())
		for _, r := range result.Results {
			if !r.Success {
				failed = append(failed, r.Target.String())
			}
		}
		fmt.Printf("❌ Failed targets: %s\n", strings.Join(failed, ", "))
	}

	for _, a := range result.Archives {
		fmt.Printf("📦 Archive: %s (%s)\n", a.Name, formatSize(a.Size))
	}

	switch {
	case dryRun:
		fmt.Println("🚀 Publication: skipped (dry run)")
	case published != nil:
		state := "published"
		if published.Draft {
			state = "draft"
		}
		fmt.Printf("🚀 Release %s (%s)\n", published.TagName, state)
		if published.HTMLURL != "" {
			fmt.Printf("   %s\n", published.HTMLURL)
		}
		fmt.Println()
		fmt.Println("Run `git fetch --tags origin` to pick up the release tag locally.")
	}

	fmt.Printf("⏱️  Total time: %.1fs\n", result.Duration.Seconds())
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}
