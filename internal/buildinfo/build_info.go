package buildinfo

import "fmt"

// BuildInfo holds all sorts of information about the build of an executable artifact.
type BuildInfo struct {
	Version    string
	CommitHash string
	BuildDate  string
}

// New assembles the build info the linker stamps into the binary.
func New(version, commitHash, buildDate string) BuildInfo {
	return BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate}
}

// String returns the build info as a string.
func (i BuildInfo) String() string {
	return fmt.Sprintf("version %s (%s) built on %s", i.Version, i.CommitHash, i.BuildDate)
}
