package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/installer"
)

// NewApplyCommand creates the apply command: the install workflow with no
// prompts at all, driven entirely by MAESTRO_* variables (or a .env file)
// and whatever documents the install directory already holds.
func NewApplyCommand(a *cli.App) *cobra.Command {
	var dir string
	var quiet bool

	command := &cobra.Command{
		Use:          "apply",
		Short:        "Provision the stack without prompting",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runInstall(ctx, a, installer.Options{
				Dir:            dir,
				NonInteractive: true,
				Quiet:          quiet,
			})
		},
	}

	command.Flags().StringVar(&dir, "dir", ".", "install directory for the stack documents")
	command.Flags().BoolVar(&quiet, "quiet", false, "no spinners or readiness view")

	return command
}
