package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Collect prompts for every bundle value that is still unset. Values already
// present (from flags or the environment) are not asked again. Optional
// service toggles default to enabled, matching a typical first install.
func Collect(b *Bundle) error {
	if err := collectBot(b); err != nil {
		return err
	}
	if err := collectLavalink(b); err != nil {
		return err
	}
	if err := collectTokener(b); err != nil {
		return err
	}
	if err := collectDatabase(b); err != nil {
		return err
	}
	if err := collectDashboard(b); err != nil {
		return err
	}
	return nil
}

func collectBot(b *Bundle) error {
	if b.Bot.Token == "" {
		prompt := &survey.Password{Message: "Discord bot token:"}
		if err := survey.AskOne(prompt, &b.Bot.Token, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Bot.ClientID == "" {
		prompt := &survey.Input{Message: "Discord application client ID:"}
		if err := survey.AskOne(prompt, &b.Bot.ClientID, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Bot.Prefix == "" {
		prompt := &survey.Input{Message: "Command prefix:", Default: DefaultPrefix}
		if err := survey.AskOne(prompt, &b.Bot.Prefix); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Bot.AdminID == "" && !envSet("MAESTRO_ADMIN_ID") {
		prompt := &survey.Input{Message: "Admin user ID (leave empty to skip):"}
		if err := survey.AskOne(prompt, &b.Bot.AdminID); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Bot.LogLevel == "" {
		prompt := &survey.Select{
			Message: "Bot log level:",
			Options: []string{"DEBUG", "INFO", "WARNING", "ERROR"},
			Default: DefaultBotLogLevel,
		}
		if err := survey.AskOne(prompt, &b.Bot.LogLevel); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	return nil
}

func collectLavalink(b *Bundle) error {
	if b.Lavalink.Port == 0 {
		port, err := askPort("Lavalink port:", DefaultLavalinkPort)
		if err != nil {
			return err
		}
		b.Lavalink.Port = port
	}
	if b.Lavalink.Password == "" {
		prompt := &survey.Input{Message: "Lavalink password:", Default: DefaultLavalinkPassword}
		if err := survey.AskOne(prompt, &b.Lavalink.Password); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Lavalink.SpotifyClientID == "" && !envSet("MAESTRO_SPOTIFY_CLIENT_ID") {
		prompt := &survey.Input{Message: "Spotify client ID (leave empty to skip):"}
		if err := survey.AskOne(prompt, &b.Lavalink.SpotifyClientID); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Lavalink.SpotifyClientID != "" && b.Lavalink.SpotifyClientSecret == "" {
		prompt := &survey.Password{Message: "Spotify client secret:"}
		if err := survey.AskOne(prompt, &b.Lavalink.SpotifyClientSecret, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	return nil
}

func collectTokener(b *Bundle) error {
	if envSet("MAESTRO_TOKENER_ENABLED") {
		return nil
	}
	prompt := &survey.Confirm{Message: "Install the Spotify tokener service?", Default: true}
	if err := survey.AskOne(prompt, &b.Tokener.Enabled); err != nil {
		return fmt.Errorf("survey failed: %w", err)
	}
	return nil
}

func collectDatabase(b *Bundle) error {
	if !envSet("MAESTRO_DB_ENABLED") {
		prompt := &survey.Confirm{Message: "Install the MongoDB service?", Default: true}
		if err := survey.AskOne(prompt, &b.Database.Enabled); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if !b.Database.Enabled {
		return nil
	}
	if b.Database.Username == "" {
		prompt := &survey.Input{Message: "Database username:", Default: DefaultDBUsername}
		if err := survey.AskOne(prompt, &b.Database.Username); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Database.Password == "" {
		prompt := &survey.Input{Message: "Database password:", Default: DefaultDBPassword}
		if err := survey.AskOne(prompt, &b.Database.Password); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Database.Name == "" {
		prompt := &survey.Input{Message: "Database name:", Default: DefaultDBName}
		if err := survey.AskOne(prompt, &b.Database.Name); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	return nil
}

func collectDashboard(b *Bundle) error {
	if !envSet("MAESTRO_DASHBOARD_ENABLED") {
		prompt := &survey.Confirm{Message: "Install the web dashboard?", Default: true}
		if err := survey.AskOne(prompt, &b.Dashboard.Enabled); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if !b.Dashboard.Enabled {
		return nil
	}
	if b.Dashboard.Port == 0 {
		port, err := askPort("Dashboard port:", DefaultDashboardPort)
		if err != nil {
			return err
		}
		b.Dashboard.Port = port
	}
	if b.Dashboard.Password == "" {
		prompt := &survey.Input{Message: "Dashboard password:", Default: DefaultDashboardPass}
		if err := survey.AskOne(prompt, &b.Dashboard.Password); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Dashboard.ClientSecretID == "" {
		prompt := &survey.Password{Message: "Discord client secret ID:"}
		if err := survey.AskOne(prompt, &b.Dashboard.ClientSecretID, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Dashboard.SecretKey == "" {
		prompt := &survey.Password{Message: "Dashboard session secret key:"}
		if err := survey.AskOne(prompt, &b.Dashboard.SecretKey, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	if b.Dashboard.RedirectURL == "" {
		prompt := &survey.Input{Message: "OAuth redirect URL:", Default: DefaultRedirectURL}
		if err := survey.AskOne(prompt, &b.Dashboard.RedirectURL); err != nil {
			return fmt.Errorf("survey failed: %w", err)
		}
	}
	return nil
}

func askPort(message string, defaultPort int) (int, error) {
	var answer string
	prompt := &survey.Input{Message: message, Default: strconv.Itoa(defaultPort)}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(portValidator)); err != nil {
		return 0, fmt.Errorf("survey failed: %w", err)
	}
	port, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, &ValidationError{Key: message, Reason: "must be a number"}
	}
	return port, nil
}

func portValidator(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return fmt.Errorf("expected a text answer")
	}
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}
