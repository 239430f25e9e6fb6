package common

import (
	"fmt"
	"runtime"
)

// GetUserAgent identifies this client and build to the backend.
func GetUserAgent() string {
	version, gitCommit, ok := GetModuleBuildInfo()
	if !ok || len(version) == 0 {
		version = "dev"
	}
	if len(gitCommit) > 8 {
		gitCommit = gitCommit[:8]
	}
	if len(gitCommit) > 0 && gitCommit != "unknown" {
		return fmt.Sprintf("wof/%s (%s; %s/%s)", version, gitCommit, runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("wof/%s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}
