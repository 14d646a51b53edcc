// Package templates carries the default stack documents baked into the
// binary. They seed an install directory that has no documents yet; an
// existing document always wins over its template.
package templates

import _ "embed"

// ComposeManifest is the default docker-compose.yml with every stack
// service present. Disabled services are stripped during reconciliation.
//
//go:embed files/docker-compose.yml
var ComposeManifest []byte

// LavalinkConfig is the default audio node application.yml.
//
//go:embed files/application.yml
var LavalinkConfig []byte

// BotSettings is the default bot settings.json.
//
//go:embed files/settings.json
var BotSettings []byte

// DashboardSettings is the default web dashboard settings.json.
//
//go:embed files/dashboard-settings.json
var DashboardSettings []byte
