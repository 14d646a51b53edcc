package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	output string
	code   int
	err    error
}

type fakeRunner struct {
	binaries map[string]bool
	results  map[string]fakeResult
	calls    []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, call)
	res, ok := f.results[call]
	if !ok {
		return nil, 0, nil
	}
	return []byte(res.output), res.code, res.err
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.binaries[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("%s: executable file not found in $PATH", name)
}

func writtenStack(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	manifest := filepath.Join(dir, "docker-compose.yml")
	audio := filepath.Join(dir, "lavalink", "application.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(audio), 0750))
	require.NoError(t, os.WriteFile(manifest, []byte("services: {}\n"), 0644))
	require.NoError(t, os.WriteFile(audio, []byte("server: {}\n"), 0644))
	return dir, manifest, audio
}

func TestPreflight_ComposePlugin(t *testing.T) {
	runner := &fakeRunner{
		binaries: map[string]bool{"docker": true},
		results: map[string]fakeResult{
			"docker --version":       {output: "Docker version 27.0.1"},
			"docker compose version": {output: "Docker Compose version v2.29.1"},
		},
	}
	p := &ComposeProvisioner{
		runner: runner,
		pinger: func(ctx context.Context) error { return nil },
		quiet:  true,
	}

	require.NoError(t, p.Preflight(context.Background()))
	require.NotNil(t, p.tool)
	assert.Equal(t, "docker compose", p.tool.String())
}

func TestPreflight_DaemonUnreachable(t *testing.T) {
	// The binary is installed but nothing is listening on the socket. This
	// has to fail at preflight, not later at compose up.
	runner := &fakeRunner{
		binaries: map[string]bool{"docker": true},
		results: map[string]fakeResult{
			"docker --version": {output: "Docker version 27.0.1"},
		},
	}
	pingErr := errors.New("cannot connect to Docker daemon: connection refused")
	p := &ComposeProvisioner{
		runner: runner,
		pinger: func(ctx context.Context) error { return pingErr },
		quiet:  true,
	}

	err := p.Preflight(context.Background())

	var perr *ProvisionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "docker", perr.Tool)
	assert.ErrorIs(t, err, pingErr)
	assert.NotContains(t, runner.calls, "docker compose version",
		"no compose detection when the daemon is down")
}

func TestPreflight_StandaloneFallback(t *testing.T) {
	runner := &fakeRunner{
		binaries: map[string]bool{"docker": true, "docker-compose": true},
		results: map[string]fakeResult{
			"docker --version":         {output: "Docker version 27.0.1"},
			"docker compose version":   {err: errors.New("unknown command")},
			"docker-compose --version": {output: "docker-compose version 1.29.2"},
		},
	}
	p := &ComposeProvisioner{runner: runner, quiet: true}

	require.NoError(t, p.Preflight(context.Background()))
	require.NotNil(t, p.tool)
	assert.Equal(t, "docker-compose", p.tool.String())
}

func TestPreflight_NoDocker(t *testing.T) {
	runner := &fakeRunner{binaries: map[string]bool{}}
	p := &ComposeProvisioner{runner: runner, quiet: true}

	err := p.Preflight(context.Background())

	var perr *ProvisionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "docker", perr.Tool)
}

func TestPreflight_NoComposeTool(t *testing.T) {
	runner := &fakeRunner{
		binaries: map[string]bool{"docker": true},
		results: map[string]fakeResult{
			"docker --version":       {output: "Docker version 27.0.1"},
			"docker compose version": {err: errors.New("unknown command")},
		},
	}
	p := &ComposeProvisioner{runner: runner, quiet: true}

	err := p.Preflight(context.Background())

	require.ErrorIs(t, err, ErrComposeNotFound)
	var perr *ProvisionError
	require.ErrorAs(t, err, &perr)
}

func TestApply_PullFailureTolerated(t *testing.T) {
	_, manifest, audio := writtenStack(t)
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"docker compose pull": {output: "network down", code: 1, err: errors.New("exit status 1")},
		},
	}
	p := &ComposeProvisioner{runner: runner, quiet: true, tool: &composeTool{name: "docker", args: []string{"compose"}}}

	status, err := p.Apply(context.Background(), manifest, audio)

	require.NoError(t, err)
	assert.Equal(t, ExitStatus(0), status)
	assert.Contains(t, runner.calls, "docker compose up -d")
}

func TestApply_UpFailureSurfacesOutput(t *testing.T) {
	_, manifest, audio := writtenStack(t)
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"docker compose up -d": {output: "port is already allocated", code: 17, err: errors.New("exit status 17")},
		},
	}
	p := &ComposeProvisioner{runner: runner, quiet: true, tool: &composeTool{name: "docker", args: []string{"compose"}}}

	status, err := p.Apply(context.Background(), manifest, audio)

	assert.Equal(t, ExitStatus(17), status)
	var perr *ProvisionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 17, perr.ExitCode)
	assert.Contains(t, perr.Output, "port is already allocated")
}

func TestApply_MissingManifest(t *testing.T) {
	runner := &fakeRunner{}
	p := &ComposeProvisioner{runner: runner, quiet: true, tool: &composeTool{name: "docker", args: []string{"compose"}}}

	_, err := p.Apply(context.Background(), "/nonexistent/docker-compose.yml", "/nonexistent/application.yml")

	require.Error(t, err)
	assert.Empty(t, runner.calls, "no tool invocation before the documents exist")
}

func TestDown(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"docker compose down": {output: "Removed"},
		},
	}
	p := &ComposeProvisioner{runner: runner, quiet: true, tool: &composeTool{name: "docker", args: []string{"compose"}}}

	status, err := p.Down(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitStatus(0), status)
}

func TestParseComposeVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Docker Compose version v2.29.1", want: "2.29.1"},
		{input: "docker-compose version 1.29.2, build unknown", want: "1.29.2"},
		{input: "no version here", want: ""},
	}
	for _, tt := range tests {
		v := parseComposeVersion(tt.input)
		if tt.want == "" {
			assert.Nil(t, v, tt.input)
			continue
		}
		require.NotNil(t, v, tt.input)
		assert.Equal(t, tt.want, v.String())
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{dir: "/srv/Melodix Stack", want: "melodixstack"},
		{dir: "/home/user/melodix", want: "melodix"},
		{dir: "/tmp/--weird", want: "weird"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectName(tt.dir), tt.dir)
	}
}
