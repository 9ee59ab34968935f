package entities

import "time"

// BuildResult records the outcome of compiling one Target. It is created by
// the build stage and never mutated afterwards; when Success is true the
// binary exists at OutputPath before packaging begins.
type BuildResult struct {
	Target     Target
	OutputPath string
	Success    bool
	Err        error
	Duration   time.Duration
}

// Archive is a compressed artifact bundling one or more built binaries.
// An archive only ever references binaries from successful builds.
type Archive struct {
	Name string
	Path string
	Size int64
}

// Release is a tagged collection of archives to publish on the hosting
// service. It is created at most once per pipeline invocation.
type Release struct {
	Tag    string
	Title  string
	Draft  bool
	Assets []string
}
