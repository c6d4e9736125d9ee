package droidui

import (
	"runtime/debug"

	xstrings "github.com/frantjc/x/strings"
	"golang.org/x/mod/semver"
)

var (
	// Version is set at build time with -ldflags "-X github.com/frantjc/droidui.Version=...".
	Version = "0.0.0"
	// Prerelease is appended to Version, if set.
	Prerelease = ""
)

// SemVer returns the version of droidui as a semantic version string.
func SemVer() string {
	v := xstrings.EnsurePrefix(Version, "v")
	if Prerelease != "" {
		v += "-" + Prerelease
	}

	if semver.IsValid(v) && v != "v0.0.0" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
		return info.Main.Version
	}

	return "v0.0.0-unknown"
}
