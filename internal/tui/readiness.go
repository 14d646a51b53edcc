// Package tui shows a live readiness view after the stack is brought up:
// a spinner while containers start, a line per service once they settle.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/melodix-project/maestro/pkg/docker"
)

const pollInterval = 1 * time.Second

var (
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#54baff"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// ContainerLister is the slice of the engine client the view needs.
type ContainerLister interface {
	ProjectContainers(ctx context.Context, project string) ([]docker.ContainerState, error)
}

type statesMsg struct {
	states []docker.ContainerState
	err    error
}

type tickMsg struct{}

// ReadinessModel polls the compose project until every expected service is
// running, one of them fails, or the user quits.
type ReadinessModel struct {
	spinner  spinner.Model
	lister   ContainerLister
	ctx      context.Context
	project  string
	expected []string

	states   []docker.ContainerState
	err      error
	quitting bool

	// Ready is set when every expected service reached a running state.
	Ready bool
	// FailedService names the first service observed in a failed state.
	FailedService string
}

// NewReadinessModel returns a model watching the named compose project.
func NewReadinessModel(ctx context.Context, lister ContainerLister, project string, expected []string) ReadinessModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle
	return ReadinessModel{
		spinner:  s,
		lister:   lister,
		ctx:      ctx,
		project:  project,
		expected: expected,
	}
}

func (m ReadinessModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m ReadinessModel) poll() tea.Cmd {
	return func() tea.Msg {
		states, err := m.lister.ProjectContainers(m.ctx, m.project)
		return statesMsg{states: states, err: err}
	}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m ReadinessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case statesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.states = msg.states
		if name, failed := firstFailed(m.states); failed {
			m.FailedService = name
			return m, tea.Quit
		}
		if allRunning(m.states, m.expected) {
			m.Ready = true
			return m, tea.Quit
		}
		return m, schedulePoll()

	case tickMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ReadinessModel) View() string {
	if m.quitting {
		return "Stopped watching, the stack keeps starting in the background.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s Waiting for the stack to come up (q to stop watching)\n\n", m.spinner.View())
	for _, state := range m.states {
		label := state.Service
		if label == "" {
			label = state.Name
		}
		switch {
		case state.Failed():
			fmt.Fprintf(&b, "   %s %s (%s)\n", failedStyle.Render("✗"), label, state.Status)
		case state.Running():
			fmt.Fprintf(&b, "   %s %s\n", runningStyle.Render("✓"), label)
		default:
			fmt.Fprintf(&b, "   %s %s (%s)\n", pendingStyle.Render("…"), label, state.Status)
		}
	}
	return b.String()
}

// RunReadiness runs the readiness view and reports whether every expected
// service came up.
func RunReadiness(ctx context.Context, lister ContainerLister, project string, expected []string) (bool, error) {
	m := NewReadinessModel(ctx, lister, project, expected)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running readiness view: %w", err)
	}
	result, ok := final.(ReadinessModel)
	if !ok {
		return false, nil
	}
	if result.FailedService != "" {
		return false, fmt.Errorf("service %s failed to start", result.FailedService)
	}
	return result.Ready, nil
}

// allRunning reports whether every expected service has a running container.
func allRunning(states []docker.ContainerState, expected []string) bool {
	if len(states) == 0 {
		return false
	}
	byService := make(map[string]docker.ContainerState, len(states))
	for _, s := range states {
		byService[s.Service] = s
	}
	for _, name := range expected {
		s, ok := byService[name]
		if !ok || !s.Running() {
			return false
		}
	}
	return true
}

func firstFailed(states []docker.ContainerState) (string, bool) {
	for _, s := range states {
		if s.Failed() {
			name := s.Service
			if name == "" {
				name = s.Name
			}
			return name, true
		}
	}
	return "", false
}
