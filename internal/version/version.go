package version

import (
	"runtime"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/wharflab/rsbridge/internal/rules"
)

var version = "dev"

// Version returns the current version string with the commit suffix when
// the build carries VCS information.
func Version() string {
	if commit := readCommit(); commit != "" {
		return version + " (" + commit + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// readCommit returns the short VCS revision from the build info.
func readCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if idx < 0 {
		return ""
	}
	val := info.Settings[idx].Value
	if len(val) > 12 {
		return val[:12]
	}
	return val
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version   string   `json:"version"`
	Catalogs  []string `json:"catalogs"`
	Platform  Platform `json:"platform"`
	GoVersion string   `json:"goVersion"`
	GitCommit string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// String renders the platform as os/arch.
func (p Platform) String() string {
	return strings.Join([]string{p.OS, p.Arch}, "/")
}

// GetInfo returns structured version information.
func GetInfo() Info {
	return Info{
		Version:  RawVersion(),
		Catalogs: rules.CatalogNames(),
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: readCommit(),
	}
}
