// Package version provides build version information.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	// Version is the semantic version of the build.
	Version = "dev"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)

// Full returns the full version string including the commit hash.
func Full() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
