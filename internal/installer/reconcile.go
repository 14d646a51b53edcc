package installer

import (
	"github.com/melodix-project/maestro/internal/botcfg"
	"github.com/melodix-project/maestro/internal/compose"
	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/document"
	"github.com/melodix-project/maestro/internal/lavalink"
)

// ReconcileDocuments merges the bundle into the manifest and the audio node
// configuration. A nil input starts from the embedded template. The bundle
// is the single source of truth: whatever port and password the two inputs
// carried, both outputs reference the bundle's pair, so they can never
// disagree with each other. Nothing is persisted here.
func ReconcileDocuments(b *config.Bundle, manifestIn *compose.Manifest, audioIn *lavalink.Config) (*compose.Manifest, *lavalink.Config, error) {
	manifest := manifestIn
	if manifest == nil {
		var err error
		manifest, err = compose.Default()
		if err != nil {
			return nil, nil, err
		}
	}
	audio := audioIn
	if audio == nil {
		var err error
		audio, err = lavalink.Default()
		if err != nil {
			return nil, nil, err
		}
	}

	if err := manifest.Apply(b); err != nil {
		return nil, nil, err
	}
	if err := audio.Apply(b); err != nil {
		return nil, nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, nil, err
	}
	if err := crossCheck(b, manifest, audio); err != nil {
		return nil, nil, err
	}
	return manifest, audio, nil
}

// crossCheck confirms the invariant reconciliation establishes: the bot
// service's audio node environment and the audio document's server section
// both carry the bundle's port and password.
func crossCheck(b *config.Bundle, manifest *compose.Manifest, audio *lavalink.Config) error {
	port, ok := audio.Port()
	if !ok || port != b.Lavalink.Port {
		return document.Schemaf(lavalink.FileName, "server.port did not reconcile to %d", b.Lavalink.Port)
	}
	password, ok := audio.Password()
	if !ok || password != b.Lavalink.Password {
		return document.Schemaf(lavalink.FileName, "server.password did not reconcile")
	}
	if v, ok := manifest.ServiceEnv(config.ServiceBot, "LAVALINK_PASSWORD"); !ok || v != b.Lavalink.Password {
		return document.Schemaf(compose.FileName, "bot service LAVALINK_PASSWORD did not reconcile")
	}
	return nil
}

// ReconcileSettings merges the bundle into the bot settings document and,
// when the dashboard is enabled, the dashboard settings document. Nil inputs
// start from the embedded templates; the returned dashboard document is nil
// when the dashboard is disabled.
func ReconcileSettings(b *config.Bundle, botIn, dashIn *botcfg.Settings) (*botcfg.Settings, *botcfg.Settings, error) {
	bot := botIn
	if bot == nil {
		var err error
		bot, err = botcfg.DefaultBot()
		if err != nil {
			return nil, nil, err
		}
	}
	if err := bot.ApplyBot(b); err != nil {
		return nil, nil, err
	}

	if !b.Dashboard.Enabled {
		return bot, nil, nil
	}
	dash := dashIn
	if dash == nil {
		var err error
		dash, err = botcfg.DefaultDashboard()
		if err != nil {
			return nil, nil, err
		}
	}
	if err := dash.ApplyDashboard(b); err != nil {
		return nil, nil, err
	}
	return bot, dash, nil
}
