// Package version reports which faqmatch build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with ldflags, e.g.
// -X github.com/Aman-CERP/faqmatch/pkg/version.Version=$(VERSION)
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

const unknown = "unknown"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build info. Commit and Date fall back to the VCS stamp
// the go command embeds, then to "unknown".
func Get() Info {
	var settings []debug.BuildSetting
	if bi, ok := debug.ReadBuildInfo(); ok {
		settings = bi.Settings
	}
	return resolve(Version, Commit, Date, settings)
}

func resolve(ver, commit, date string, settings []debug.BuildSetting) Info {
	info := Info{Version: ver, Commit: commit, Date: date, GoVersion: runtime.Version()}
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if commit == "" && info.Commit != "" && modified {
		info.Commit += "-dirty"
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Date == "" {
		info.Date = unknown
	}
	return info
}

// String returns a one-line description with the commit shortened.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 && commit != unknown {
		commit = commit[:12]
	}
	return fmt.Sprintf("faqmatch %s (commit: %s, built: %s, go: %s)", i.Version, commit, i.Date, i.GoVersion)
}
