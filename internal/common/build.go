package common

import (
	"runtime/debug"
)

// Version and GitCommit are set via ldflags for release builds:
//
//	-X github.com/walloffame/wof/internal/common.Version=v1.2.0
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// GetModuleBuildInfo returns the version and commit of this binary, from
// ldflags when set and from the embedded build info otherwise.
func GetModuleBuildInfo() (string, string, bool) {
	if Version != "dev" {
		return Version, GitCommit, true
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}

	var gitCommit string
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			gitCommit = setting.Value
			break
		}
	}

	return info.Main.Version, gitCommit, true
}
