// Package yaml provides YAML-based manifest parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// yamlManifest represents the raw YAML structure
type yamlManifest struct {
	Tool      string       `yaml:"tool"`
	Source    string       `yaml:"source"`
	OutputDir string       `yaml:"output_dir"`
	Version   string       `yaml:"version"`
	Build     yamlBuild    `yaml:"build"`
	Archive   yamlArchive  `yaml:"archive"`
	Release   yamlRelease  `yaml:"release"`
	Targets   []yamlTarget `yaml:"targets"`
}

type yamlBuild struct {
	Ldflags          []string `yaml:"ldflags"`
	Parallelism      int      `yaml:"parallelism"`
	FailOnBuildError bool     `yaml:"fail_on_build_error"`
}

type yamlArchive struct {
	Policy string `yaml:"policy"`
}

type yamlRelease struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type yamlTarget struct {
	OS   string `yaml:"os"`
	Arch string `yaml:"arch"`
}

// ManifestParser parses YAML manifest files
type ManifestParser struct{}

// NewManifestParser creates a new YAML parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a YAML manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the manifest path chosen by the user
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Manifest entity, applying defaults for
// omitted fields.
func (p *ManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var yamlDef yamlManifest
	if err := yaml.Unmarshal(data, &yamlDef); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if yamlDef.Tool == "" {
		return nil, fmt.Errorf("manifest must name a tool")
	}

	manifest := entities.DefaultManifest(yamlDef.Tool)

	if yamlDef.Source != "" {
		manifest.Source = yamlDef.Source
	}
	if yamlDef.OutputDir != "" {
		manifest.OutputDir = yamlDef.OutputDir
	}
	if yamlDef.Version != "" {
		manifest.Version = yamlDef.Version
	}

	manifest.Build = entities.BuildSettings{
		Ldflags:          yamlDef.Build.Ldflags,
		Parallelism:      yamlDef.Build.Parallelism,
		FailOnBuildError: yamlDef.Build.FailOnBuildError,
	}

	if yamlDef.Archive.Policy != "" {
		if err := validatePolicy(yamlDef.Archive.Policy); err != nil {
			return nil, err
		}
		manifest.Archive.Policy = yamlDef.Archive.Policy
	}

	manifest.Release = entities.ReleaseSettings{
		Owner: yamlDef.Release.Owner,
		Repo:  yamlDef.Release.Repo,
	}

	if len(yamlDef.Targets) > 0 {
		targets, err := convertTargets(yamlDef.Targets)
		if err != nil {
			return nil, err
		}
		manifest.Targets = targets
	}

	return manifest, nil
}

func validatePolicy(policy string) error {
	switch policy {
	case entities.ArchivePolicyPerTarget, entities.ArchivePolicyAggregate:
		return nil
	default:
		return fmt.Errorf("unknown archive policy %q (expected %q or %q)",
			policy, entities.ArchivePolicyPerTarget, entities.ArchivePolicyAggregate)
	}
}

func convertTargets(yts []yamlTarget) ([]entities.Target, error) {
	targets := make([]entities.Target, 0, len(yts))
	for _, yt := range yts {
		if yt.OS == "" || yt.Arch == "" {
			return nil, fmt.Errorf("target entries need both os and arch")
		}
		targets = append(targets, entities.Target{
			OS:   yt.OS,
			Arch: yt.Arch,
			Ext:  entities.ExtFor(yt.OS),
		})
	}
	return targets, nil
}
