// Package lavalink reconciles the audio node's application.yml.
package lavalink

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/document"
	"github.com/melodix-project/maestro/internal/templates"
)

// FileName is the document's name inside the lavalink directory.
const FileName = "application.yml"

// Config is a parsed application.yml.
type Config struct {
	root map[string]any
}

// Parse decodes audio node configuration bytes.
func Parse(data []byte) (*Config, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &document.SchemaError{File: FileName, Err: err}
	}
	if root == nil {
		root = make(map[string]any)
	}
	if server, ok := root["server"]; ok {
		if _, ok := document.Mapping(server); !ok {
			return nil, document.Schemaf(FileName, "server must be a mapping")
		}
	}
	return &Config{root: root}, nil
}

// Default returns the audio node template baked into the binary.
func Default() (*Config, error) {
	return Parse(templates.LavalinkConfig)
}

// Encode renders the document back to YAML.
func (c *Config) Encode() ([]byte, error) {
	data, err := yaml.Marshal(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	return data, nil
}

// Apply rewrites the server port and password from the bundle. The Spotify
// source is only touched when the bundle carries credentials, so a document
// tuned by hand keeps its plugin settings otherwise.
func (c *Config) Apply(b *config.Bundle) error {
	server := document.EnsureMap(c.root, "server")
	server["port"] = b.Lavalink.Port
	server["password"] = b.Lavalink.Password

	if b.Lavalink.SpotifyClientID != "" && b.Lavalink.SpotifyClientSecret != "" {
		spotify := document.EnsureMap(document.EnsureMap(document.EnsureMap(c.root, "plugins"), "lavasrc"), "spotify")
		spotify["clientId"] = b.Lavalink.SpotifyClientID
		spotify["clientSecret"] = b.Lavalink.SpotifyClientSecret
		spotify["preferAnonymousToken"] = false
	}

	return nil
}

// Port returns the server port the document declares.
func (c *Config) Port() (int, bool) {
	return document.Int(c.root, "server", "port")
}

// Password returns the server password the document declares.
func (c *Config) Password() (string, bool) {
	return document.String(c.root, "server", "password")
}
