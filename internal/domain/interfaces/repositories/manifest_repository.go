// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// ManifestRepository defines the interface for loading build manifests.
type ManifestRepository interface {
	// Load reads the manifest at path. An empty path means the default
	// manifest location; a missing default falls back to built-in defaults.
	Load(ctx context.Context, path string) (*entities.Manifest, error)
}
