package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String is the one-line version banner.
func String() string {
	return fmt.Sprintf("crestic-docs %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
