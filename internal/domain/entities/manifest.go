package entities

// Archive packaging policies.
const (
	// ArchivePolicyPerTarget produces one archive per successful build,
	// preserving the <os>/<arch>/<binary> hierarchy on extraction.
	ArchivePolicyPerTarget = "per-target"
	// ArchivePolicyAggregate produces a single version-stamped archive of
	// the whole output directory with flat-named binaries.
	ArchivePolicyAggregate = "aggregate"
)

// DefaultVersion is the placeholder version stamp used when no version is
// supplied on the command line or in the manifest.
const DefaultVersion = "v0.0.0-dev"

// Manifest describes what to build and where the artifacts go. It is usually
// loaded from a shipwright.yml file; every field has a working default.
type Manifest struct {
	Tool      string
	Source    string
	OutputDir string
	Version   string
	Build     BuildSettings
	Archive   ArchiveSettings
	Release   ReleaseSettings
	Targets   []Target
}

// BuildSettings holds compiler-stage configuration.
type BuildSettings struct {
	Ldflags          []string
	Parallelism      int
	FailOnBuildError bool
}

// ArchiveSettings holds packaging-stage configuration.
type ArchiveSettings struct {
	Policy string
}

// ReleaseSettings identifies the repository releases are published to.
type ReleaseSettings struct {
	Owner string
	Repo  string
}

// DefaultManifest returns a manifest with working defaults for a tool built
// from the current directory.
func DefaultManifest(tool string) *Manifest {
	return &Manifest{
		Tool:      tool,
		Source:    ".",
		OutputDir: "bin",
		Version:   DefaultVersion,
		Archive:   ArchiveSettings{Policy: ArchivePolicyPerTarget},
		Targets:   DefaultTargets(),
	}
}
