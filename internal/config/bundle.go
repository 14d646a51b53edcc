// Package config collects and validates the settings that drive an
// installation: bot credentials, audio node settings, and the optional
// service toggles.
package config

import "strings"

// Canonical compose service names for the stack.
const (
	ServiceBot       = "melodix"
	ServiceLavalink  = "lavalink"
	ServiceDatabase  = "melodix-db"
	ServiceDashboard = "melodix-dashboard"
	ServiceTokener   = "spotify-tokener"
)

// Bundle carries every setting the installer writes into the stack
// documents. It is assembled once per run and passed through the reconcile
// and provision steps unchanged.
type Bundle struct {
	InstallDir string

	Bot       BotConfig
	Lavalink  LavalinkConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
	Tokener   TokenerConfig
}

type BotConfig struct {
	Token    string
	ClientID string
	Prefix   string
	AdminID  string
	LogLevel string
}

type LavalinkConfig struct {
	Port                int
	Password            string
	SpotifyClientID     string
	SpotifyClientSecret string
}

type DatabaseConfig struct {
	Enabled  bool
	Username string
	Password string
	Name     string
}

type DashboardConfig struct {
	Enabled        bool
	Port           int
	Password       string
	ClientSecretID string
	SecretKey      string
	RedirectURL    string
}

type TokenerConfig struct {
	Enabled bool
}

// Documented defaults, offered during prompting and applied to anything
// still unset before validation.
const (
	DefaultPrefix           = "?"
	DefaultBotLogLevel      = "INFO"
	DefaultLavalinkPort     = 2333
	DefaultLavalinkPassword = "youshallnotpass"
	DefaultDBUsername       = "admin"
	DefaultDBPassword       = "admin"
	DefaultDBName           = "melodix"
	DefaultDashboardPort    = 8080
	DefaultDashboardPass    = "admin"
	DefaultRedirectURL      = "http://localhost:8080/callback"
)

// ApplyDefaults fills every optional field that is still at its zero value.
// Required fields (bot token, client ID, dashboard secrets) are left alone
// so validation can report them.
func (b *Bundle) ApplyDefaults() {
	if b.InstallDir == "" {
		b.InstallDir = "."
	}
	if b.Bot.Prefix == "" {
		b.Bot.Prefix = DefaultPrefix
	}
	if b.Bot.LogLevel == "" {
		b.Bot.LogLevel = DefaultBotLogLevel
	}
	if b.Lavalink.Port == 0 {
		b.Lavalink.Port = DefaultLavalinkPort
	}
	if b.Lavalink.Password == "" {
		b.Lavalink.Password = DefaultLavalinkPassword
	}
	if b.Database.Enabled {
		if b.Database.Username == "" {
			b.Database.Username = DefaultDBUsername
		}
		if b.Database.Password == "" {
			b.Database.Password = DefaultDBPassword
		}
		if b.Database.Name == "" {
			b.Database.Name = DefaultDBName
		}
	}
	if b.Dashboard.Enabled {
		if b.Dashboard.Port == 0 {
			b.Dashboard.Port = DefaultDashboardPort
		}
		if b.Dashboard.Password == "" {
			b.Dashboard.Password = DefaultDashboardPass
		}
		if b.Dashboard.RedirectURL == "" {
			b.Dashboard.RedirectURL = DefaultRedirectURL
		}
	}
}

// Validate checks the bundle before any document is touched.
func (b *Bundle) Validate() error {
	if strings.TrimSpace(b.Bot.Token) == "" {
		return &ValidationError{Key: "bot token", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(b.Bot.ClientID) == "" {
		return &ValidationError{Key: "client ID", Reason: "cannot be empty"}
	}
	if b.Lavalink.Port < 1 || b.Lavalink.Port > 65535 {
		return &ValidationError{Key: "lavalink port", Reason: "must be between 1 and 65535"}
	}
	if strings.TrimSpace(b.Lavalink.Password) == "" {
		return &ValidationError{Key: "lavalink password", Reason: "cannot be empty"}
	}
	if b.Database.Enabled {
		if strings.TrimSpace(b.Database.Username) == "" {
			return &ValidationError{Key: "database username", Reason: "cannot be empty"}
		}
		if strings.TrimSpace(b.Database.Password) == "" {
			return &ValidationError{Key: "database password", Reason: "cannot be empty"}
		}
		if strings.TrimSpace(b.Database.Name) == "" {
			return &ValidationError{Key: "database name", Reason: "cannot be empty"}
		}
	}
	if b.Dashboard.Enabled {
		if b.Dashboard.Port < 1 || b.Dashboard.Port > 65535 {
			return &ValidationError{Key: "dashboard port", Reason: "must be between 1 and 65535"}
		}
		if strings.TrimSpace(b.Dashboard.ClientSecretID) == "" {
			return &ValidationError{Key: "dashboard client secret ID", Reason: "cannot be empty"}
		}
		if strings.TrimSpace(b.Dashboard.SecretKey) == "" {
			return &ValidationError{Key: "dashboard secret key", Reason: "cannot be empty"}
		}
	}
	return nil
}

// EnabledServices returns the compose services this bundle provisions, the
// two mandatory ones first.
func (b *Bundle) EnabledServices() []string {
	services := []string{ServiceBot, ServiceLavalink}
	if b.Database.Enabled {
		services = append(services, ServiceDatabase)
	}
	if b.Dashboard.Enabled {
		services = append(services, ServiceDashboard)
	}
	if b.Tokener.Enabled {
		services = append(services, ServiceTokener)
	}
	return services
}

// DisabledServices returns the optional services this bundle leaves out.
func (b *Bundle) DisabledServices() []string {
	var services []string
	if !b.Database.Enabled {
		services = append(services, ServiceDatabase)
	}
	if !b.Dashboard.Enabled {
		services = append(services, ServiceDashboard)
	}
	if !b.Tokener.Enabled {
		services = append(services, ServiceTokener)
	}
	return services
}
