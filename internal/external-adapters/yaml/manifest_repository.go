package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// DefaultManifestFile is the manifest looked up when no -config flag is given.
const DefaultManifestFile = "shipwright.yml"

// ManifestRepository implements repositories.ManifestRepository using YAML files
type ManifestRepository struct {
	parser *ManifestParser
}

// NewManifestRepository creates a new YAML-based manifest repository
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{
		parser: NewManifestParser(),
	}
}

// Load reads the manifest at path. An empty path means DefaultManifestFile
// in the current directory; if that is absent, built-in defaults are used
// with the tool named after the working directory. An explicitly given path
// that does not exist is an error.
func (r *ManifestRepository) Load(_ context.Context, path string) (*entities.Manifest, error) {
	if path == "" {
		if _, err := os.Stat(DefaultManifestFile); os.IsNotExist(err) {
			return defaultFromWorkingDir()
		}
		path = DefaultManifestFile
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest not found: %s", path)
	}

	return r.parser.ParseFile(path)
}

func defaultFromWorkingDir() (*entities.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	return entities.DefaultManifest(filepath.Base(wd)), nil
}
