package common

import (
	"fmt"
)

func GetVersion() string {
	version, gitCommit, ok := GetModuleBuildInfo()
	if !ok {
		return "unknown"
	}
	if len(version) == 0 {
		version = "dev"
	}
	if len(gitCommit) == 0 {
		return version
	}
	return fmt.Sprintf("%s (git: %s)", version, gitCommit)
}
