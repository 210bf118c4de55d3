package config

import (
	"strings"

	"golang.org/x/mod/semver"
)

// MeetsMinVersion reports whether the running tool satisfies the
// site-configured minimum version. An empty or malformed min_version
// never blocks.
func MeetsMinVersion() bool {
	if Global.MinVersion == "" {
		return true
	}
	minimum := "v" + strings.TrimPrefix(Global.MinVersion, "v")
	if !semver.IsValid(minimum) {
		return true
	}
	return semver.Compare("v"+VERSION, minimum) >= 0
}
