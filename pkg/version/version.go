// Package version holds the build metadata of the tsfang binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, set with -ldflags "-X" at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills metadata left unset by the linker from the module
// build info recorded by the Go toolchain.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String renders the metadata on one line.
func String() string {
	return fmt.Sprintf("tsfang %s (commit: %s, built: %s)", Version, Commit, Date)
}
