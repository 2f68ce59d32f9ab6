package internal

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Build describes the binary, read from the VCS stamp the Go toolchain embeds.
type Build struct {
	Revision      string
	RevisionTime  time.Time
	LocalModified bool
	GoVersion     string
}

// CurrentBuild is read once at startup. Fields stay zero when the binary
// was built without VCS information, for example by go test.
var CurrentBuild = readBuild()

// BuildRevision is a shorthand for CurrentBuild.Revision, "unknown" if not stamped.
var BuildRevision = orUnknown(CurrentBuild.Revision)

func readBuild() Build {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Build{}
	}

	b := Build{GoVersion: info.GoVersion}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Revision = setting.Value
		case "vcs.time":
			// An unparsable time is left zero, it's informational only.
			b.RevisionTime, _ = time.Parse(time.RFC3339, setting.Value)
		case "vcs.modified":
			b.LocalModified = setting.Value == "true"
		}
	}

	return b
}

// LogValue groups the build information in log lines.
func (b Build) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("revision", orUnknown(b.Revision)),
		slog.Time("revisionTime", b.RevisionTime),
		slog.Bool("localModified", b.LocalModified),
		slog.String("goVersion", b.GoVersion),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
