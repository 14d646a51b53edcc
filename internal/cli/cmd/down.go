package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/provision"
)

// NewDownCommand creates the down command, stopping and removing the stack.
func NewDownCommand(a *cli.App) *cobra.Command {
	var dir string

	command := &cobra.Command{
		Use:          "down",
		Short:        "Stop the Melodix stack",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			p := provision.NewComposeProvisioner(false)
			if _, err := p.Down(command.Context(), dir); err != nil {
				return err
			}
			color.Green("The Melodix stack is stopped.")
			return nil
		},
	}

	command.Flags().StringVar(&dir, "dir", ".", "install directory of the stack")

	return command
}
