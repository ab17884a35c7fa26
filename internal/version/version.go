package version

// Version information set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns a formatted version string
func FullVersion() string {
	if Version == "dev" {
		return "regping development build"
	}
	return "regping " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}

// AppID identifies regping to the endpoint directory service.
func AppID() string {
	return "regping-" + Version
}
