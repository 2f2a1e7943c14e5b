// Package buildinfo reports the version reelbox was built from. The
// linker flags win; otherwise the VCS stamp of the Go toolchain is used.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X reelbox/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build identity.
type Info struct {
	Version  string
	Commit   string
	Date     string
	Modified bool
}

// Read merges the linker flags with the embedded VCS settings.
func Read() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
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
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short is the compact identifier shown in the window title and logs.
func Short() string {
	info := Read()
	if info.Version != "dev" {
		return info.Version
	}
	if len(info.Commit) >= 7 {
		id := info.Commit[:7]
		if info.Modified {
			id += "+"
		}
		return id
	}
	return "dev"
}

// String is the long form printed by `reelbox version`.
func String() string {
	info := Read()
	commit, date := info.Commit, info.Date
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("reelbox %s (commit %s, built %s)", info.Version, commit, date)
}
