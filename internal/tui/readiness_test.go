package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melodix-project/maestro/pkg/docker"
)

func TestAllRunning(t *testing.T) {
	expected := []string{"melodix", "lavalink"}

	tests := []struct {
		name   string
		states []docker.ContainerState
		want   bool
	}{
		{
			name: "all running",
			states: []docker.ContainerState{
				{Service: "melodix", State: "running", Status: "Up 10 seconds"},
				{Service: "lavalink", State: "running", Status: "Up 12 seconds"},
			},
			want: true,
		},
		{
			name: "one still creating",
			states: []docker.ContainerState{
				{Service: "melodix", State: "created", Status: "Created"},
				{Service: "lavalink", State: "running", Status: "Up 12 seconds"},
			},
			want: false,
		},
		{
			name: "running but health pending",
			states: []docker.ContainerState{
				{Service: "melodix", State: "running", Status: "Up 3 seconds (health: starting)"},
				{Service: "lavalink", State: "running", Status: "Up 12 seconds"},
			},
			want: false,
		},
		{
			name: "expected service missing entirely",
			states: []docker.ContainerState{
				{Service: "melodix", State: "running", Status: "Up 10 seconds"},
			},
			want: false,
		},
		{
			name:   "nothing observed yet",
			states: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allRunning(tt.states, expected))
		})
	}
}

func TestFirstFailed(t *testing.T) {
	states := []docker.ContainerState{
		{Service: "melodix", State: "running", Status: "Up 10 seconds"},
		{Service: "lavalink", State: "exited", Status: "Exited (1) 2 seconds ago"},
	}

	name, failed := firstFailed(states)
	assert.True(t, failed)
	assert.Equal(t, "lavalink", name)

	name, failed = firstFailed(states[:1])
	assert.False(t, failed)
	assert.Empty(t, name)
}
