package provision

import (
	"context"
	"os/exec"
)

// commandRunner abstracts process execution so tests stay in-process.
type commandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (output []byte, exitCode int, err error)
	LookPath(name string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return output, exitError.ExitCode(), err
		}
		return output, -1, err
	}
	return output, 0, nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
