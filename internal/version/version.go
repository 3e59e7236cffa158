// Package version reports the smithy build and the CUE SDK it was built against.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/opmodel/smithy/internal/version.Version=...".
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const unknown = "unknown"

// Info describes a smithy binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the cuelang.org/go release formula schemas are checked with.
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the running binary's Info.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: dependencyVersion("cuelang.org/go"),
	}
}

// String formats Info as `smithy version` prints it.
func (i Info) String() string {
	return fmt.Sprintf("smithy %s\n  commit:  %s\n  built:   %s\n  go:      %s (%s/%s)\n  cue sdk: %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, runtime.GOOS, runtime.GOARCH, i.CUESDKVersion)
}

func dependencyVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return unknown
	}
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return unknown
}
