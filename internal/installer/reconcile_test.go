package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodix-project/maestro/internal/compose"
	"github.com/melodix-project/maestro/internal/config"
	"github.com/melodix-project/maestro/internal/lavalink"
)

func testBundle() *config.Bundle {
	b := &config.Bundle{}
	b.Bot.Token = "T1"
	b.Bot.ClientID = "123"
	b.ApplyDefaults()
	return b
}

func TestReconcileDocuments_FreshInstall(t *testing.T) {
	b := testBundle()
	b.Lavalink.Port = 2333
	b.Lavalink.Password = "P1"

	manifest, audio, err := ReconcileDocuments(b, nil, nil)
	require.NoError(t, err)

	v, ok := manifest.ServiceEnv(config.ServiceBot, "LAVALINK_PASSWORD")
	require.True(t, ok)
	assert.Equal(t, "P1", v)
	v, ok = manifest.ServiceEnv(config.ServiceBot, "LAVALINK_PORT")
	require.True(t, ok)
	assert.Equal(t, "2333", v)

	port, ok := audio.Port()
	require.True(t, ok)
	assert.Equal(t, 2333, port)
	password, ok := audio.Password()
	require.True(t, ok)
	assert.Equal(t, "P1", password)
}

func TestReconcileDocuments_BundleWinsOverConflictingInputs(t *testing.T) {
	// The two inputs disagree with each other and with the bundle; the
	// bundle's pair has to end up in both outputs.
	manifestIn, err := compose.Parse([]byte(`
services:
  melodix:
    image: ghcr.io/melodix-project/melodix:latest
    environment:
      LAVALINK_PORT: "1111"
      LAVALINK_PASSWORD: stale
  lavalink:
    image: ghcr.io/lavalink-devs/lavalink:4
    environment:
      SERVER_PORT: "1111"
`))
	require.NoError(t, err)
	audioIn, err := lavalink.Parse([]byte("server:\n  port: 4444\n  password: other\n"))
	require.NoError(t, err)

	b := testBundle() // port 2333, password youshallnotpass

	manifest, audio, err := ReconcileDocuments(b, manifestIn, audioIn)
	require.NoError(t, err)

	v, _ := manifest.ServiceEnv(config.ServiceBot, "LAVALINK_PORT")
	assert.Equal(t, "2333", v)
	v, _ = manifest.ServiceEnv(config.ServiceBot, "LAVALINK_PASSWORD")
	assert.Equal(t, "youshallnotpass", v)
	v, _ = manifest.ServiceEnv(config.ServiceLavalink, "SERVER_PORT")
	assert.Equal(t, "2333", v)

	port, _ := audio.Port()
	assert.Equal(t, 2333, port)
	password, _ := audio.Password()
	assert.Equal(t, "youshallnotpass", password)
}

func TestReconcileDocuments_Idempotent(t *testing.T) {
	b := testBundle()

	m1, a1, err := ReconcileDocuments(b, nil, nil)
	require.NoError(t, err)
	manifestOnce, err := m1.Encode()
	require.NoError(t, err)
	audioOnce, err := a1.Encode()
	require.NoError(t, err)

	manifestIn, err := compose.Parse(manifestOnce)
	require.NoError(t, err)
	audioIn, err := lavalink.Parse(audioOnce)
	require.NoError(t, err)

	m2, a2, err := ReconcileDocuments(b, manifestIn, audioIn)
	require.NoError(t, err)
	manifestTwice, err := m2.Encode()
	require.NoError(t, err)
	audioTwice, err := a2.Encode()
	require.NoError(t, err)

	assert.Equal(t, string(manifestOnce), string(manifestTwice))
	assert.Equal(t, string(audioOnce), string(audioTwice))
}

func TestReconcileDocuments_PreservesUnrelatedKeys(t *testing.T) {
	manifestIn, err := compose.Parse([]byte(`
services:
  melodix:
    image: ghcr.io/melodix-project/melodix:latest
  lavalink:
    image: ghcr.io/lavalink-devs/lavalink:4
  backup:
    image: offen/docker-volume-backup:v2
`))
	require.NoError(t, err)
	audioIn, err := lavalink.Parse([]byte("server:\n  port: 2333\nmetrics:\n  prometheus:\n    enabled: true\n"))
	require.NoError(t, err)

	manifest, audio, err := ReconcileDocuments(testBundle(), manifestIn, audioIn)
	require.NoError(t, err)

	assert.True(t, manifest.HasService("backup"))
	audioData, err := audio.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(audioData), "prometheus")
}

func TestReconcileSettings(t *testing.T) {
	b := testBundle()

	bot, dash, err := ReconcileSettings(b, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, bot)
	assert.Nil(t, dash, "dashboard document only exists when the dashboard is enabled")

	token, _ := bot.Get("token")
	assert.Equal(t, "T1", token)

	b.Dashboard.Enabled = true
	b.Dashboard.ClientSecretID = "csid"
	b.Dashboard.SecretKey = "sk"
	b.ApplyDefaults()

	bot, dash, err = ReconcileSettings(b, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, dash)

	enabled, _ := bot.Get("ipc_client", "enabled")
	assert.Equal(t, true, enabled)
	secret, _ := dash.Get("client_secret_id")
	assert.Equal(t, "csid", secret)
}
