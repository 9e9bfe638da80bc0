// Package version provides version information for backoffice.
package version

// Version is the release version, set at build time with -ldflags.
var Version = "development"

// Commit is the git commit hash, set at build time with -ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}
