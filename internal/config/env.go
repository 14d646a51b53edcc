package config

import (
	"os"
	"strconv"
)

// Environment variables understood by FromEnv. A .env file next to the
// binary works too, it is loaded by the godotenv autoload import in the
// command assembly.
const (
	EnvInstallDir          = "MAESTRO_INSTALL_DIR"
	EnvBotToken            = "MAESTRO_BOT_TOKEN"
	EnvClientID            = "MAESTRO_CLIENT_ID"
	EnvPrefix              = "MAESTRO_PREFIX"
	EnvAdminID             = "MAESTRO_ADMIN_ID"
	EnvBotLogLevel         = "MAESTRO_BOT_LOG_LEVEL"
	EnvLavalinkPort        = "MAESTRO_LAVALINK_PORT"
	EnvLavalinkPassword    = "MAESTRO_LAVALINK_PASSWORD"
	EnvSpotifyClientID     = "MAESTRO_SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "MAESTRO_SPOTIFY_CLIENT_SECRET"
	EnvDBEnabled           = "MAESTRO_DB_ENABLED"
	EnvDBUsername          = "MAESTRO_DB_USERNAME"
	EnvDBPassword          = "MAESTRO_DB_PASSWORD"
	EnvDBName              = "MAESTRO_DB_NAME"
	EnvDashboardEnabled    = "MAESTRO_DASHBOARD_ENABLED"
	EnvDashboardPort       = "MAESTRO_DASHBOARD_PORT"
	EnvDashboardPassword   = "MAESTRO_DASHBOARD_PASSWORD"
	EnvDashboardSecretID   = "MAESTRO_DASHBOARD_CLIENT_SECRET_ID"
	EnvDashboardSecretKey  = "MAESTRO_DASHBOARD_SECRET_KEY"
	EnvDashboardRedirect   = "MAESTRO_DASHBOARD_REDIRECT_URL"
	EnvTokenerEnabled      = "MAESTRO_TOKENER_ENABLED"
)

// FromEnv overlays MAESTRO_* environment variables onto the bundle. Unset
// variables leave the current value alone, so flag values and defaults
// survive the overlay.
func FromEnv(b *Bundle) error {
	readString(EnvInstallDir, &b.InstallDir)
	readString(EnvBotToken, &b.Bot.Token)
	readString(EnvClientID, &b.Bot.ClientID)
	readString(EnvPrefix, &b.Bot.Prefix)
	readString(EnvAdminID, &b.Bot.AdminID)
	readString(EnvBotLogLevel, &b.Bot.LogLevel)
	if err := readPort(EnvLavalinkPort, &b.Lavalink.Port); err != nil {
		return err
	}
	readString(EnvLavalinkPassword, &b.Lavalink.Password)
	readString(EnvSpotifyClientID, &b.Lavalink.SpotifyClientID)
	readString(EnvSpotifyClientSecret, &b.Lavalink.SpotifyClientSecret)
	if err := readBool(EnvDBEnabled, &b.Database.Enabled); err != nil {
		return err
	}
	readString(EnvDBUsername, &b.Database.Username)
	readString(EnvDBPassword, &b.Database.Password)
	readString(EnvDBName, &b.Database.Name)
	if err := readBool(EnvDashboardEnabled, &b.Dashboard.Enabled); err != nil {
		return err
	}
	if err := readPort(EnvDashboardPort, &b.Dashboard.Port); err != nil {
		return err
	}
	readString(EnvDashboardPassword, &b.Dashboard.Password)
	readString(EnvDashboardSecretID, &b.Dashboard.ClientSecretID)
	readString(EnvDashboardSecretKey, &b.Dashboard.SecretKey)
	readString(EnvDashboardRedirect, &b.Dashboard.RedirectURL)
	if err := readBool(EnvTokenerEnabled, &b.Tokener.Enabled); err != nil {
		return err
	}
	return nil
}

func readString(name string, dest *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dest = v
	}
}

func readPort(name string, dest *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return &ValidationError{Key: name, Reason: "must be a number"}
	}
	*dest = port
	return nil
}

func readBool(name string, dest *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return &ValidationError{Key: name, Reason: "must be true or false"}
	}
	*dest = enabled
	return nil
}
