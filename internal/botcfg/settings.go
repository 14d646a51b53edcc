// Package botcfg reconciles the bot's and the dashboard's settings.json.
// Both are JSON documents the stack's images read at startup; the installer
// rewrites the keys it owns and preserves the rest.
package botcfg

import (
	"encoding/json"
	"fmt"

	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/document"
	"github.com/melodix-project/maestro/internal/templates"
)

// FileName is the settings document name for both the bot and the
// dashboard. The dashboard's copy lives under the dashboard directory.
const FileName = "settings.json"

// Settings is a parsed settings.json.
type Settings struct {
	file string
	root map[string]any
}

// Parse decodes settings bytes. The file name is only used in errors.
func Parse(file string, data []byte) (*Settings, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &document.SchemaError{File: file, Err: err}
	}
	if root == nil {
		root = make(map[string]any)
	}
	return &Settings{file: file, root: root}, nil
}

// DefaultBot returns the bot settings template baked into the binary.
func DefaultBot() (*Settings, error) {
	return Parse(FileName, templates.BotSettings)
}

// DefaultDashboard returns the dashboard settings template.
func DefaultDashboard() (*Settings, error) {
	return Parse(FileName, templates.DashboardSettings)
}

// Encode renders the document back to indented JSON.
func (s *Settings) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s.root, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", s.file, err)
	}
	return append(data, '\n'), nil
}

// ApplyBot rewrites the bot document from the bundle: credentials, prefix,
// database URL, the default audio node entry, and the dashboard IPC block.
func (s *Settings) ApplyBot(b *config.Bundle) error {
	s.root["token"] = b.Bot.Token
	s.root["client_id"] = b.Bot.ClientID
	s.root["prefix"] = b.Bot.Prefix

	if b.Bot.AdminID != "" {
		s.addAccessUser(b.Bot.AdminID)
	}

	if b.Database.Enabled {
		s.root["mongodb_url"] = fmt.Sprintf("mongodb://%s:%s@%s:27017",
			b.Database.Username, b.Database.Password, config.ServiceDatabase)
		s.root["mongodb_name"] = b.Database.Name
	}

	if nodes, ok := document.Mapping(s.root["nodes"]); ok {
		if node, ok := document.Mapping(nodes["DEFAULT"]); ok {
			node["port"] = b.Lavalink.Port
			node["password"] = b.Lavalink.Password
		}
	}

	if ipc, ok := document.Mapping(s.root["ipc_client"]); ok && b.Dashboard.Enabled {
		ipc["enabled"] = true
		ipc["port"] = b.Dashboard.Port
		ipc["password"] = b.Dashboard.Password
	}

	if level, ok := document.Mapping(s.root["logging"]); ok {
		if levels, ok := document.Mapping(level["level"]); ok {
			levels["melodix"] = b.Bot.LogLevel
		}
	}

	return nil
}

// ApplyDashboard rewrites the dashboard document from the bundle.
func (s *Settings) ApplyDashboard(b *config.Bundle) error {
	s.root["port"] = b.Dashboard.Port
	s.root["password"] = b.Dashboard.Password
	s.root["client_id"] = b.Bot.ClientID
	s.root["client_secret_id"] = b.Dashboard.ClientSecretID
	s.root["secret_key"] = b.Dashboard.SecretKey
	s.root["redirect_url"] = b.Dashboard.RedirectURL
	return nil
}

// addAccessUser appends id to bot_access_user when it is not there yet.
func (s *Settings) addAccessUser(id string) {
	users, ok := s.root["bot_access_user"].([]any)
	if !ok {
		s.root["bot_access_user"] = []any{id}
		return
	}
	for _, user := range users {
		if fmt.Sprintf("%v", user) == id {
			return
		}
	}
	s.root["bot_access_user"] = append(users, id)
}

// Get reads a value for tests and cross-checks.
func (s *Settings) Get(path ...string) (any, bool) {
	return document.Get(s.root, path...)
}
