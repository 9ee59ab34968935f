package gateways

import (
	"context"
	"io"
)

// ReleaseRequest describes a release to create on the hosting service.
type ReleaseRequest struct {
	TagName       string
	Title         string
	Draft         bool
	GenerateNotes bool
}

// PublishedRelease is a release as reported back by the hosting service.
type PublishedRelease struct {
	ID        int64
	TagName   string
	Title     string
	Draft     bool
	HTMLURL   string
	UploadURL string
}

// ReleaseAsset is an uploaded release asset.
type ReleaseAsset struct {
	ID                 int64
	Name               string
	State              string
	Size               int64
	BrowserDownloadURL string
}

// ReleasePublisher defines the operations for publishing releases.
type ReleasePublisher interface {
	// CreateRelease creates a new tagged release.
	CreateRelease(ctx context.Context, owner, repo string, req *ReleaseRequest) (*PublishedRelease, error)

	// GetRelease retrieves a release by tag name.
	GetRelease(ctx context.Context, owner, repo, tag string) (*PublishedRelease, error)

	// UploadAsset attaches a file to a release.
	UploadAsset(ctx context.Context, uploadURL, filename string, content io.Reader) (*ReleaseAsset, error)

	// ListReleaseAssets lists all assets attached to a release.
	ListReleaseAssets(ctx context.Context, owner, repo string, releaseID int64) ([]*ReleaseAsset, error)
}
