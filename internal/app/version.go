package app

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags:
//
//	-X github.com/tejashwikalptaru/aurora/internal/app.Version=1.0.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = ""
	BuildTime = "unknown"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string
	GitTag    string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns the build information of this binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// Short returns the tag when the build has one, the version otherwise.
func (v VersionInfo) Short() string {
	if v.GitTag != "" {
		return v.GitTag
	}
	return v.Version
}

// FullString returns a detailed version string for logging and --version.
func (v VersionInfo) FullString() string {
	s := fmt.Sprintf("Aurora %s (commit: %s, built: %s)", v.Short(), v.GitCommit, v.BuildTime)
	if v.GoVersion != "" {
		s += " " + v.GoVersion
	}
	return s
}
