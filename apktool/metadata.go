package apktool

import (
	"fmt"

	xslice "github.com/frantjc/x/slice"
	xstrings "github.com/frantjc/x/strings"
	"golang.org/x/mod/semver"
)

const (
	MetadataName = "apktool.yml"
)

type UsesFramework struct {
	IDs []int `yaml:"ids"`
	Tag any   `yaml:"tag"`
}

type SDKInfo struct {
	MinSDKVersion    int `yaml:"minSdkVersion"`
	TargetSDKVersion int `yaml:"targetSdkVersion"`
}

type PackageInfo struct {
	ForcedPackageID       int `yaml:"forcedPackageId"`
	RenameManifestPackage any `yaml:"renameManifestPackage"`
}

type VersionInfo struct {
	VersionCode int    `yaml:"versionCode"`
	VersionName string `yaml:"versionName"`
}

type Metadata struct {
	Version                string         `yaml:"version,omitempty"`
	APKFileName            string         `yaml:"apkFileName,omitempty"`
	IsFrameworkAPK         bool           `yaml:"isFrameworkApk,omitempty"`
	UsesFramework          *UsesFramework `yaml:"usesFramework,omitempty"`
	SDKInfo                *SDKInfo       `yaml:"sdkInfo,omitempty"`
	PackageInfo            *PackageInfo   `yaml:"packageInfo,omitempty"`
	VersionInfo            *VersionInfo   `yaml:"versionInfo,omitempty"`
	ResourcesAreCompressed bool           `yaml:"resourcesAreCompressed,omitempty"`
	SharedLibrary          bool           `yaml:"sharedLibrary,omitempty"`
	SparseResources        bool           `yaml:"sparseResources,omitempty"`
	UnknownFiles           map[string]int `yaml:"unknownFiles,omitempty"`
	DoNotCompress          []string       `yaml:"doNotCompress,omitempty"`
}

// SemVer returns the app version as a canonical semantic version, or
// the empty string if it does not look like one.
func (m *Metadata) SemVer() string {
	if m.VersionInfo == nil {
		return ""
	}

	code := ""
	if m.VersionInfo.VersionCode > 0 {
		code = fmt.Sprint(m.VersionInfo.VersionCode)
	}

	return semver.Canonical(
		xstrings.EnsurePrefix(
			xslice.Coalesce(m.VersionInfo.VersionName, code),
			"v",
		),
	)
}

// MinSDK returns the declared minimum SDK level, 0 if unknown.
func (m *Metadata) MinSDK() int {
	if m.SDKInfo == nil {
		return 0
	}

	return m.SDKInfo.MinSDKVersion
}
