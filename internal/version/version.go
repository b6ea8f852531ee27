// Package version exposes build metadata stamped in with -ldflags at
// release time; unstamped builds report "dev".
package version

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the build metadata as a single line for startup logs.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
