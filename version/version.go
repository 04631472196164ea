// Package version reports the build version of a service binary.
//
// Values are set at build time:
//
//	go build -ldflags "-X github.com/kbukum/injex/version.Version=1.4.0"
//
// and fall back to the VCS settings recorded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary. bootstrap registers it under di.Core.Version.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date,omitempty"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get returns the version information of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	return info
}

// String returns the version with a short commit suffix, e.g. "1.4.0-a1b2c3d-dirty".
func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.IsDirty {
		return fmt.Sprintf("%s-%s-dirty", i.Version, commit)
	}
	return fmt.Sprintf("%s-%s", i.Version, commit)
}
