package provision

import (
	"errors"
	"fmt"
	"strings"
)

// ErrComposeNotFound marks a preflight failure where no compose tool is
// installed at all, as opposed to one that failed running.
var ErrComposeNotFound = errors.New("compose tool not found")

// ProvisionError reports a failed run of the orchestration tool, carrying
// its captured output so the user sees exactly what the tool said.
type ProvisionError struct {
	Tool     string
	Args     []string
	Output   string
	ExitCode int
	Err      error
}

func (e *ProvisionError) Error() string {
	command := e.Tool
	if len(e.Args) > 0 {
		command += " " + strings.Join(e.Args, " ")
	}
	if e.Err != nil && e.Output == "" {
		return fmt.Sprintf("%s: %v", command, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", command, e.ExitCode)
}

func (e *ProvisionError) Unwrap() error { return e.Err }
