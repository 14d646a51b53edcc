package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/melodix-project/maestro/internal/botcfg"
	"github.com/melodix-project/maestro/internal/compose"
	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/fetch"
	"github.com/melodix-project/maestro/internal/journal"
	"github.com/melodix-project/maestro/internal/lavalink"
	"github.com/melodix-project/maestro/internal/provision"
	"github.com/melodix-project/maestro/pkg/fsutil"
	"github.com/melodix-project/maestro/pkg/logger"
)

// Options selects how a workflow run behaves.
type Options struct {
	Dir            string
	NonInteractive bool
	Fetch          bool
	Quiet          bool
	SkipStart      bool
}

// Workflow is one provisioning run: collect, reconcile, write, provision.
type Workflow struct {
	Bundle      *config.Bundle
	Provisioner provision.Provisioner
	Fetcher     *fetch.Fetcher
	Journal     *journal.Journal
	Options     Options
}

// New returns a workflow over the real provisioner.
func New(opts Options) *Workflow {
	return &Workflow{
		Bundle:      &config.Bundle{InstallDir: opts.Dir},
		Provisioner: provision.NewComposeProvisioner(opts.Quiet),
		Options:     opts,
	}
}

// Documents is the reconciled set for one run.
type Documents struct {
	Manifest  *compose.Manifest
	Audio     *lavalink.Config
	Bot       *botcfg.Settings
	Dashboard *botcfg.Settings
}

// Run executes the whole workflow. Collector and reconciler failures abort
// before anything is written or any external process runs; a provisioner
// failure leaves the written documents in place for the user to inspect.
func (w *Workflow) Run(ctx context.Context) error {
	started := time.Now()

	if err := w.Provisioner.Preflight(ctx); err != nil {
		return err
	}

	if err := w.collect(); err != nil {
		return err
	}

	docs, err := w.Reconcile(ctx)
	if err != nil {
		return err
	}

	if err := w.WriteDocuments(docs); err != nil {
		return err
	}
	logger.Info("Documents written", "dir", w.Bundle.InstallDir)

	if w.Options.SkipStart {
		w.record(started, "written", 0, "")
		return nil
	}

	status, err := w.Provisioner.Apply(ctx, w.paths().Manifest(), w.paths().LavalinkConfig())
	if err != nil {
		w.record(started, "failed", int(status), firstLine(err))
		return err
	}
	w.record(started, "started", 0, "")
	return nil
}

// collect assembles the bundle: environment overlay first, prompts for the
// rest unless the run is non-interactive, then defaults and validation.
func (w *Workflow) collect() error {
	if err := config.FromEnv(w.Bundle); err != nil {
		return err
	}
	if !w.Options.NonInteractive {
		if err := config.Collect(w.Bundle); err != nil {
			return err
		}
	}
	w.Bundle.ApplyDefaults()
	return w.Bundle.Validate()
}

// Reconcile loads whatever documents the install directory already has and
// merges the bundle into them. With the fetch option set, fresh templates
// from the project repositories replace the embedded ones for any document
// that does not exist yet.
func (w *Workflow) Reconcile(ctx context.Context) (*Documents, error) {
	templates, err := w.fetchTemplates(ctx)
	if err != nil {
		return nil, err
	}

	manifestIn, err := loadManifest(w.paths().Manifest(), templates.Compose)
	if err != nil {
		return nil, err
	}
	audioIn, err := loadLavalink(w.paths().LavalinkConfig(), templates.Lavalink)
	if err != nil {
		return nil, err
	}
	botIn, err := loadSettings(w.paths().BotSettings(), templates.Bot)
	if err != nil {
		return nil, err
	}
	var dashIn *botcfg.Settings
	if w.Bundle.Dashboard.Enabled {
		dashIn, err = loadSettings(w.paths().DashboardSettings(), templates.Dashboard)
		if err != nil {
			return nil, err
		}
	}

	manifest, audio, err := ReconcileDocuments(w.Bundle, manifestIn, audioIn)
	if err != nil {
		return nil, err
	}
	bot, dash, err := ReconcileSettings(w.Bundle, botIn, dashIn)
	if err != nil {
		return nil, err
	}
	return &Documents{Manifest: manifest, Audio: audio, Bot: bot, Dashboard: dash}, nil
}

// WriteDocuments scaffolds the install directory and writes every document
// through a temp-file-and-rename, so an interrupt mid-write never leaves a
// torn document behind.
func (w *Workflow) WriteDocuments(docs *Documents) error {
	p := w.paths()
	for _, dir := range p.ScaffoldDirs(docs.Dashboard != nil) {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}

	data, err := docs.Manifest.Encode()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(p.Manifest(), data, 0644); err != nil {
		return err
	}

	if data, err = docs.Audio.Encode(); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(p.LavalinkConfig(), data, 0644); err != nil {
		return err
	}

	if data, err = docs.Bot.Encode(); err != nil {
		return err
	}
	// The bot settings hold the Discord token
	if err := fsutil.WriteFileAtomic(p.BotSettings(), data, 0600); err != nil {
		return err
	}

	if docs.Dashboard != nil {
		if data, err = docs.Dashboard.Encode(); err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(p.DashboardSettings(), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// fetchTemplates downloads the current templates when the fetch option is
// set. A download failure is not fatal: the embedded templates still work,
// they may just be older.
func (w *Workflow) fetchTemplates(ctx context.Context) (fetch.Templates, error) {
	if !w.Options.Fetch {
		return fetch.Templates{}, nil
	}
	fetcher := w.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(nil)
	}
	templates, err := fetcher.Download(ctx, w.Bundle.Dashboard.Enabled)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fetch.Templates{}, err
		}
		logger.Warn("Template download failed, using embedded templates", "error", err)
		return fetch.Templates{}, nil
	}
	return *templates, nil
}

func (w *Workflow) paths() Paths {
	return NewPaths(w.Bundle.InstallDir)
}

// record journals the run. Journal failures are reported but never fail the
// installation itself.
func (w *Workflow) record(started time.Time, result string, exitCode int, detail string) {
	if w.Journal == nil {
		return
	}
	entry := journal.Entry{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Services:   w.Bundle.EnabledServices(),
		Result:     result,
		ExitCode:   exitCode,
		Detail:     detail,
	}
	if err := w.Journal.Record(entry); err != nil {
		logger.Warn("Could not journal the run", "error", err)
	}
}

func loadManifest(path string, template []byte) (*compose.Manifest, error) {
	data, err := readIfPresent(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = template
	}
	if data == nil {
		return nil, nil
	}
	return compose.Parse(data)
}

func loadLavalink(path string, template []byte) (*lavalink.Config, error) {
	data, err := readIfPresent(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = template
	}
	if data == nil {
		return nil, nil
	}
	return lavalink.Parse(data)
}

func loadSettings(path string, template []byte) (*botcfg.Settings, error) {
	data, err := readIfPresent(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = template
	}
	if data == nil {
		return nil, nil
	}
	return botcfg.Parse(path, data)
}

// readIfPresent returns nil bytes for a file that does not exist and an
// error for one that exists but cannot be read.
func readIfPresent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// firstLine trims an error to its first line for the journal.
func firstLine(err error) string {
	s := err.Error()
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
