// Package cli carries the state shared by every maestro command.
package cli

import "fmt"

// BuildInfo is the version information stamped in at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	version := b.Version
	if version == "" {
		version = "dev"
	}
	s := fmt.Sprintf("maestro %s", version)
	if b.Commit != "" {
		s += fmt.Sprintf(" (%s)", b.Commit)
	}
	if b.Date != "" {
		s += fmt.Sprintf(" built %s", b.Date)
	}
	return s
}

// App is passed to every command constructor.
type App struct {
	Build BuildInfo
}

// NewApp returns the shared command state.
func NewApp(build BuildInfo) *App {
	return &App{Build: build}
}
