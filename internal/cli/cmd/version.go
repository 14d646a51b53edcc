package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version of maestro",
		Run: func(command *cobra.Command, args []string) {
			fmt.Println(a.Build.String())
		},
	}
}
