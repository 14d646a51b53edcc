// Package provision drives the orchestration tool that brings the stack up.
// It shells out the way an operator would, captures the tool's output, and
// fails fast: one attempt, no retries, no rollback.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/briandowns/spinner"

	"github.com/melodix-project/maestro/pkg/docker"
	"github.com/melodix-project/maestro/pkg/logger"
)

// ExitStatus is the exit code the orchestration tool finished with.
type ExitStatus int

// Provisioner brings a written stack up and reports on it.
type Provisioner interface {
	Preflight(ctx context.Context) error
	Apply(ctx context.Context, manifestPath, audioConfigPath string) (ExitStatus, error)
	Status(ctx context.Context, dir string) (string, error)
	Down(ctx context.Context, dir string) (ExitStatus, error)
}

// composeTool is the resolved invocation: `docker compose` when the plugin
// is available, the standalone `docker-compose` binary otherwise.
type composeTool struct {
	name string
	args []string
}

func (t composeTool) String() string {
	return strings.Join(append([]string{t.name}, t.args...), " ")
}

// daemonPinger checks that the container engine daemon is reachable.
type daemonPinger func(ctx context.Context) error

// ComposeProvisioner implements Provisioner on top of docker compose.
type ComposeProvisioner struct {
	runner commandRunner
	pinger daemonPinger
	quiet  bool
	tool   *composeTool
}

// NewComposeProvisioner returns a provisioner that runs the real tool.
// With quiet set it skips the phase spinners.
func NewComposeProvisioner(quiet bool) *ComposeProvisioner {
	return &ComposeProvisioner{runner: execRunner{}, pinger: pingDaemon, quiet: quiet}
}

// pingDaemon asks the engine API directly. The docker binary being on PATH
// says nothing about the daemon actually running.
func pingDaemon(ctx context.Context) error {
	client, err := docker.New()
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Ping(ctx)
}

// Preflight verifies that the docker binary is present, the daemon is
// reachable and a compose tool exists, and warns when the compose major
// version is the retired v1 line. A missing compose tool surfaces
// ErrComposeNotFound.
func (p *ComposeProvisioner) Preflight(ctx context.Context) error {
	if _, err := p.runner.LookPath("docker"); err != nil {
		return &ProvisionError{Tool: "docker", Err: fmt.Errorf("docker not found on PATH: %w", err)}
	}

	output, code, err := p.runner.Run(ctx, "", "docker", "--version")
	if err != nil {
		return &ProvisionError{Tool: "docker", Args: []string{"--version"}, Output: string(output), ExitCode: code, Err: err}
	}
	logger.Debug("Docker detected", "version", strings.TrimSpace(string(output)))

	if p.pinger != nil {
		if err := p.pinger(ctx); err != nil {
			return &ProvisionError{Tool: "docker", Err: err}
		}
		logger.Debug("Docker daemon reachable")
	}

	tool, version, err := p.detectCompose(ctx)
	if err != nil {
		return err
	}
	p.tool = tool
	logger.Debug("Compose detected", "tool", tool.String(), "version", version)

	if v := parseComposeVersion(version); v != nil && v.Major() < 2 {
		logger.Warn("Compose v1 is retired, consider upgrading to the compose plugin", "version", v.String())
	}
	return nil
}

// detectCompose tries the plugin form first, then the standalone binary.
func (p *ComposeProvisioner) detectCompose(ctx context.Context) (*composeTool, string, error) {
	output, _, err := p.runner.Run(ctx, "", "docker", "compose", "version")
	if err == nil {
		return &composeTool{name: "docker", args: []string{"compose"}}, strings.TrimSpace(string(output)), nil
	}

	if _, err := p.runner.LookPath("docker-compose"); err == nil {
		output, _, err := p.runner.Run(ctx, "", "docker-compose", "--version")
		if err == nil {
			return &composeTool{name: "docker-compose"}, strings.TrimSpace(string(output)), nil
		}
	}

	return nil, "", &ProvisionError{Tool: "docker compose", Err: ErrComposeNotFound}
}

var composeVersionRe = regexp.MustCompile(`\d+\.\d+\.\d+`)

func parseComposeVersion(s string) *semver.Version {
	match := composeVersionRe.FindString(s)
	if match == "" {
		return nil
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil
	}
	return v
}

// Apply pulls the stack's images, tolerating a pull failure, then brings the
// stack up detached. The returned status is the tool's exit code.
func (p *ComposeProvisioner) Apply(ctx context.Context, manifestPath, audioConfigPath string) (ExitStatus, error) {
	if _, err := os.Stat(manifestPath); err != nil {
		return 0, fmt.Errorf("manifest not readable: %w", err)
	}
	if _, err := os.Stat(audioConfigPath); err != nil {
		return 0, fmt.Errorf("audio node configuration not readable: %w", err)
	}
	dir := filepath.Dir(manifestPath)

	stop := p.startSpinner(" Pulling images...")
	output, code, err := p.runCompose(ctx, dir, "pull")
	stop()
	if err != nil {
		var perr *ProvisionError
		if errors.As(err, &perr) {
			return ExitStatus(code), err
		}
		// Local images may be enough, the up step decides
		logger.Warn("Image pull failed, continuing with local images",
			"exit_code", code, "output", strings.TrimSpace(string(output)))
	}

	stop = p.startSpinner(" Starting services...")
	output, code, err = p.runCompose(ctx, dir, "up", "-d")
	stop()
	if err != nil {
		return ExitStatus(code), p.composeError([]string{"up", "-d"}, output, code, err)
	}
	return ExitStatus(0), nil
}

// Status returns the tool's own view of the stack.
func (p *ComposeProvisioner) Status(ctx context.Context, dir string) (string, error) {
	output, code, err := p.runCompose(ctx, dir, "ps")
	if err != nil {
		return "", p.composeError([]string{"ps"}, output, code, err)
	}
	return string(output), nil
}

// Down stops and removes the stack.
func (p *ComposeProvisioner) Down(ctx context.Context, dir string) (ExitStatus, error) {
	stop := p.startSpinner(" Stopping services...")
	output, code, err := p.runCompose(ctx, dir, "down")
	stop()
	if err != nil {
		return ExitStatus(code), p.composeError([]string{"down"}, output, code, err)
	}
	return ExitStatus(0), nil
}

// composeError wraps a tool failure, passing an already typed error through.
func (p *ComposeProvisioner) composeError(args []string, output []byte, code int, err error) error {
	var perr *ProvisionError
	if errors.As(err, &perr) {
		return err
	}
	toolName := "docker compose"
	if p.tool != nil {
		toolName = p.tool.String()
	}
	return &ProvisionError{Tool: toolName, Args: args, Output: string(output), ExitCode: code, Err: err}
}

// runCompose invokes the resolved compose tool, detecting it on first use.
func (p *ComposeProvisioner) runCompose(ctx context.Context, dir string, args ...string) ([]byte, int, error) {
	if p.tool == nil {
		tool, _, err := p.detectCompose(ctx)
		if err != nil {
			return nil, -1, err
		}
		p.tool = tool
	}
	full := append(append([]string{}, p.tool.args...), args...)
	return p.runner.Run(ctx, dir, p.tool.name, full...)
}

func (p *ComposeProvisioner) startSpinner(suffix string) func() {
	if p.quiet {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

// ProjectName derives the compose project name the way compose does: the
// install directory's base name, lowercased and restricted to [a-z0-9_-].
func ProjectName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	name := strings.ToLower(filepath.Base(abs))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	trimmed := strings.TrimLeft(b.String(), "-_")
	if trimmed == "" {
		return "default"
	}
	return trimmed
}
