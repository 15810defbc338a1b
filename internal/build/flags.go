// SPDX-License-Identifier: MIT

// Package build carries build-time metadata injected through -ldflags:
//
//	go build -ldflags "-X vumeter/internal/build.buildVersion=1.2.0"
//
// Development builds fall back to placeholder values.
package build

// Populated by -ldflags at compile time.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
)

// Flags is the resolved build information.
type Flags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// GetBuildFlags returns the build information, substituting development
// defaults for anything the build did not inject.
func GetBuildFlags() *Flags {
	f := &Flags{
		Name:        buildName,
		Description: "Audio visualization screensaver engine",
		Time:        buildTime,
		Commit:      buildCommit,
		Version:     buildVersion,
	}
	if f.Name == "" {
		f.Name = "vumeter"
	}
	if f.Time == "" {
		f.Time = "unknown"
	}
	if f.Commit == "" {
		f.Commit = "unknown"
	}
	if f.Version == "" {
		f.Version = "dev"
	}
	return f
}
