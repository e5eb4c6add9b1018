package build

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version with the commit hash appended,
// e.g. "1.0.0+abc123".
func FullVersion() string {
	return Version + "+" + Commit
}

// UserAgent is the default User-Agent header sent with every request.
func UserAgent() string {
	return "top-movies/" + Version
}
