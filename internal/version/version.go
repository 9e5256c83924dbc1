// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies this build to upstream APIs.
func UserAgent() string {
	ua := "animatch/" + Version
	if Commit != "unknown" && Commit != "" {
		ua += " (" + Commit + ")"
	}
	return ua
}
