// Package version reports the controku build.
//
// Release builds set Version and Commit with ldflags:
//
//	go build -ldflags="-X github.com/muurk/controku/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/controku/internal/version.Commit=abc123"
//
// Binaries installed with "go install ...@v1.2.3" get the module version
// from build info instead. Anything else is a dev build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = ""
	Commit  = ""
)

// Info is the version record printed by "controku version --format json"
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

var buildInfo = debug.ReadBuildInfo

func init() {
	info := resolve(Version, Commit)
	Version, Commit = info.Version, info.Commit
	if info.Dirty {
		Commit += "-dirty"
	}
}

// resolve fills whatever ldflags left empty from build info
func resolve(version, commit string) Info {
	info := Info{Version: version, Commit: commit, GoVersion: runtime.Version()}

	bi, ok := buildInfo()
	if ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shortHash(s.Value)
				}
			case "vcs.modified":
				info.Dirty = commit == "" && s.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Get returns the resolved version record
func Get() Info {
	return Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
}

// Full returns the version with its commit, e.g. "v1.2.3 (commit: abc123)"
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
