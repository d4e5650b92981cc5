// Package version exposes build information injected at link time.
package version

//nolint:gochecknoglobals // These variables are set via ldflags at build time.
var (
	// Version is the semantic version of the build.
	Version = "1.0.0"

	// Commit is the git commit the build was produced from.
	Commit = "none"

	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Full returns the version together with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
