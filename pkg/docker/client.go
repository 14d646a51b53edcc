// Package docker wraps the engine API client with the few calls the
// installer needs: a daemon reachability check and the state of a compose
// project's containers.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/melodix-project/maestro/pkg/logger"
)

// Labels compose sets on every container it owns.
const (
	ComposeProjectLabel = "com.docker.compose.project"
	ComposeServiceLabel = "com.docker.compose.service"
)

// Client talks to the container engine over the standard DOCKER_*
// environment configuration.
type Client struct {
	api *client.Client
}

// New creates an engine client with API version negotiation.
func New() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	logger.Debug("Docker client initialized")
	return &Client{api: cli}, nil
}

// Ping checks that the daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("cannot connect to Docker daemon: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.api.Close()
}

// ContainerState is the observed state of one compose service container.
type ContainerState struct {
	Service string
	Name    string
	State   string
	Status  string
}

// Running reports whether the container is up, and healthy when it carries a
// healthcheck.
func (s ContainerState) Running() bool {
	if s.State != "running" {
		return false
	}
	if strings.Contains(s.Status, "(health") {
		return strings.Contains(s.Status, "(healthy)")
	}
	return true
}

// Failed reports a state the stack will not recover from on its own.
func (s ContainerState) Failed() bool {
	return s.State == "dead" || s.State == "exited" || strings.Contains(s.Status, "(unhealthy)")
}

// ProjectContainers lists the containers belonging to a compose project,
// sorted by service name.
func (c *Client) ProjectContainers(ctx context.Context, project string) ([]ContainerState, error) {
	args := filters.NewArgs(filters.Arg("label", ComposeProjectLabel+"="+project))
	containers, err := c.api.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("error listing containers: %w", err)
	}

	states := make([]ContainerState, 0, len(containers))
	for _, ctr := range containers {
		name := ""
		if len(ctr.Names) > 0 {
			name = strings.TrimPrefix(ctr.Names[0], "/")
		}
		states = append(states, ContainerState{
			Service: ctr.Labels[ComposeServiceLabel],
			Name:    name,
			State:   ctr.State,
			Status:  ctr.Status,
		})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Service < states[j].Service })
	return states, nil
}
