// Package compose reconciles the stack's docker-compose.yml. The manifest is
// handled as a generic YAML tree: the installer rewrites the keys it owns and
// leaves everything else exactly as it found it.
package compose

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/docker/go-connections/nat"
	"gopkg.in/yaml.v3"

	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/document"
	"github.com/melodix-project/maestro/internal/templates"
)

// FileName is the manifest's name inside the install directory.
const FileName = "docker-compose.yml"

// Environment keys the installer owns on its services.
const (
	envLavalinkHost     = "LAVALINK_HOST"
	envLavalinkPort     = "LAVALINK_PORT"
	envLavalinkPassword = "LAVALINK_PASSWORD"
	envServerPort       = "SERVER_PORT"
	envServerPassword   = "LAVALINK_SERVER_PASSWORD"
	envMongoUsername    = "MONGO_INITDB_ROOT_USERNAME"
	envMongoPassword    = "MONGO_INITDB_ROOT_PASSWORD"
)

// Manifest is a parsed docker-compose.yml.
type Manifest struct {
	root map[string]any
}

// Parse decodes manifest bytes into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &document.SchemaError{File: FileName, Err: err}
	}
	if root == nil {
		root = make(map[string]any)
	}
	if services, ok := root["services"]; ok {
		if _, ok := document.Mapping(services); !ok {
			return nil, document.Schemaf(FileName, "services must be a mapping")
		}
	}
	return &Manifest{root: root}, nil
}

// Default returns the manifest template baked into the binary.
func Default() (*Manifest, error) {
	return Parse(templates.ComposeManifest)
}

// Encode renders the manifest back to YAML.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := yaml.Marshal(m.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	return data, nil
}

// Apply rewrites the manifest from the bundle: the bot's audio node
// environment, the audio node's own port and password, database credentials,
// dashboard ports, and the removal of every disabled optional service. Keys
// the installer does not own pass through untouched.
func (m *Manifest) Apply(b *config.Bundle) error {
	services := document.EnsureMap(m.root, "services")

	for _, name := range b.DisabledServices() {
		delete(services, name)
	}
	for _, name := range b.EnabledServices() {
		if _, ok := document.Mapping(services[name]); !ok {
			if err := m.restoreService(services, name); err != nil {
				return err
			}
		}
	}
	for name, raw := range services {
		svc, ok := document.Mapping(raw)
		if !ok {
			return document.Schemaf(FileName, "service %s is not a mapping", name)
		}
		scrubDependsOn(svc, b.DisabledServices())
	}

	port := strconv.Itoa(b.Lavalink.Port)

	bot, _ := document.Mapping(services[config.ServiceBot])
	botEnv := envMap(bot)
	botEnv[envLavalinkHost] = config.ServiceLavalink
	botEnv[envLavalinkPort] = port
	botEnv[envLavalinkPassword] = b.Lavalink.Password

	node, _ := document.Mapping(services[config.ServiceLavalink])
	nodeEnv := envMap(node)
	nodeEnv[envServerPort] = port
	nodeEnv[envServerPassword] = b.Lavalink.Password
	node["expose"] = []any{port}

	if b.Database.Enabled {
		db, _ := document.Mapping(services[config.ServiceDatabase])
		dbEnv := envMap(db)
		dbEnv[envMongoUsername] = b.Database.Username
		dbEnv[envMongoPassword] = b.Database.Password
	}

	if b.Dashboard.Enabled {
		dash, _ := document.Mapping(services[config.ServiceDashboard])
		dashPort := strconv.Itoa(b.Dashboard.Port)
		dash["ports"] = []any{dashPort + ":" + dashPort}
	}

	return nil
}

// restoreService copies a service definition from the embedded template into
// services. Enabling a service that an existing manifest no longer defines
// has to bring its definition back.
func (m *Manifest) restoreService(services map[string]any, name string) error {
	def, err := Default()
	if err != nil {
		return err
	}
	defServices, ok := document.Mapping(def.root["services"])
	if !ok {
		return document.Schemaf(FileName, "template defines no services")
	}
	svc, ok := document.Mapping(defServices[name])
	if !ok {
		return document.Schemaf(FileName, "template defines no service %s", name)
	}
	services[name] = document.Clone(svc)
	return nil
}

// Validate checks the manifest's structure before it is written: the two
// mandatory services have to be present and every short-form port mapping has
// to parse.
func (m *Manifest) Validate() error {
	services, ok := document.Mapping(m.root["services"])
	if !ok || len(services) == 0 {
		return &config.ValidationError{Key: "services", Reason: "manifest defines no services"}
	}
	if _, ok := document.Mapping(services[config.ServiceBot]); !ok {
		return &config.ValidationError{Key: config.ServiceBot, Reason: "bot service missing from manifest"}
	}
	if _, ok := document.Mapping(services[config.ServiceLavalink]); !ok {
		return &config.ValidationError{Key: config.ServiceLavalink, Reason: "audio node service missing from manifest"}
	}
	for name, raw := range services {
		svc, ok := document.Mapping(raw)
		if !ok {
			return document.Schemaf(FileName, "service %s is not a mapping", name)
		}
		ports, ok := svc["ports"].([]any)
		if !ok {
			continue
		}
		for _, entry := range ports {
			spec, ok := portSpec(entry)
			if !ok {
				// Long-form port mappings are not the installer's to check
				continue
			}
			if _, err := nat.ParsePortSpec(spec); err != nil {
				return document.Schemaf(FileName, "service %s has invalid port %q: %v", name, spec, err)
			}
		}
	}
	return nil
}

// Services returns the names of the services the manifest defines, sorted.
func (m *Manifest) Services() []string {
	services, ok := document.Mapping(m.root["services"])
	if !ok {
		return nil
	}
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasService reports whether the manifest defines the named service.
func (m *Manifest) HasService(name string) bool {
	services, ok := document.Mapping(m.root["services"])
	if !ok {
		return false
	}
	_, ok = document.Mapping(services[name])
	return ok
}

// ServiceEnv returns the named service's environment value for key, reading
// both the list and the mapping form.
func (m *Manifest) ServiceEnv(service, key string) (string, bool) {
	services, ok := document.Mapping(m.root["services"])
	if !ok {
		return "", false
	}
	svc, ok := document.Mapping(services[service])
	if !ok {
		return "", false
	}
	return envValue(svc, key)
}
