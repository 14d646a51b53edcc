package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/provision"
	"github.com/melodix-project/maestro/pkg/docker"
	"github.com/melodix-project/maestro/pkg/logger"
)

// NewStatusCommand creates the status command: the compose tool's view of
// the stack plus a per-container table from the engine API.
func NewStatusCommand(a *cli.App) *cobra.Command {
	var dir string

	command := &cobra.Command{
		Use:          "status",
		Short:        "Show the state of the Melodix stack",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			p := provision.NewComposeProvisioner(true)
			output, err := p.Status(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Print(output)

			client, err := docker.New()
			if err != nil {
				logger.Debug("Engine API unavailable, compose output only", "error", err)
				return nil
			}
			defer client.Close()

			states, err := client.ProjectContainers(ctx, provision.ProjectName(dir))
			if err != nil {
				return err
			}
			if len(states) > 0 {
				renderStates(states)
			}
			return nil
		},
	}

	command.Flags().StringVar(&dir, "dir", ".", "install directory of the stack")

	return command
}

func renderStates(states []docker.ContainerState) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Service", "Container", "State", "Status"})
	for _, s := range states {
		t.AppendRow(table.Row{s.Service, s.Name, s.State, s.Status})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
