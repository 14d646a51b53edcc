// Package installer runs the provisioning workflow: collect settings,
// reconcile the stack documents, write them atomically, and hand the
// install directory to the provisioner.
package installer

import (
	"path/filepath"

	"github.com/melodix-project/maestro/internal/botcfg"
	"github.com/melodix-project/maestro/internal/compose"
	"github.com/melodix-project/maestro/internal/lavalink"
)

// Paths locates every document inside an install directory.
type Paths struct {
	Dir string
}

// NewPaths returns the document layout rooted at dir.
func NewPaths(dir string) Paths {
	if dir == "" {
		dir = "."
	}
	return Paths{Dir: dir}
}

// Manifest is the compose manifest path.
func (p Paths) Manifest() string {
	return filepath.Join(p.Dir, compose.FileName)
}

// LavalinkDir is the audio node's directory.
func (p Paths) LavalinkDir() string {
	return filepath.Join(p.Dir, "lavalink")
}

// LavalinkConfig is the audio node configuration path.
func (p Paths) LavalinkConfig() string {
	return filepath.Join(p.LavalinkDir(), lavalink.FileName)
}

// BotSettings is the bot settings path.
func (p Paths) BotSettings() string {
	return filepath.Join(p.Dir, botcfg.FileName)
}

// DashboardDir is the dashboard's directory.
func (p Paths) DashboardDir() string {
	return filepath.Join(p.Dir, "dashboard")
}

// DashboardSettings is the dashboard settings path.
func (p Paths) DashboardSettings() string {
	return filepath.Join(p.DashboardDir(), botcfg.FileName)
}

// ScaffoldDirs are the directories an install needs before the first write,
// mirroring the volume mounts in the manifest.
func (p Paths) ScaffoldDirs(withDashboard bool) []string {
	dirs := []string{
		p.LavalinkDir(),
		filepath.Join(p.LavalinkDir(), "plugins"),
		filepath.Join(p.LavalinkDir(), "logs"),
	}
	if withDashboard {
		dirs = append(dirs, p.DashboardDir())
	}
	return dirs
}
