// Package cmd holds the constructors for every maestro subcommand.
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
)

// NewRootCommand creates the bare command: a short banner and a pointer at
// the install command.
func NewRootCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Run: func(command *cobra.Command, args []string) {
			color.Green("Maestro %s", a.Build.Version)
			color.Blue("One-command installer for the self-hosted Melodix music stack")

			fmt.Println()
			fmt.Println("Run \"maestro install\" to set up the stack.")
			fmt.Println("Use \"maestro --help\" for more information about a command.")
		},
	}
}
