package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/compose"
	"github.com/melodix-project/maestro/internal/installer"
	"github.com/melodix-project/maestro/internal/lavalink"
	"github.com/melodix-project/maestro/internal/provision"
	"github.com/melodix-project/maestro/internal/watch"
)

// NewWatchCommand creates the watch command: keep the running stack in sync
// with the documents on disk until interrupted.
func NewWatchCommand(a *cli.App) *cobra.Command {
	var dir string

	command := &cobra.Command{
		Use:          "watch",
		Short:        "Re-apply the stack whenever its documents change",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := installer.NewPaths(dir)
			p := provision.NewComposeProvisioner(true)

			apply := func(ctx context.Context) error {
				if err := checkDocuments(paths); err != nil {
					return err
				}
				_, err := p.Apply(ctx, paths.Manifest(), paths.LavalinkConfig())
				return err
			}

			watched := []string{
				paths.Manifest(),
				paths.LavalinkConfig(),
				paths.BotSettings(),
				paths.DashboardSettings(),
			}
			err := watch.New(watched, apply).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	command.Flags().StringVar(&dir, "dir", ".", "install directory of the stack")

	return command
}

// checkDocuments parses the two stack documents so a broken edit is caught
// before the orchestration tool sees it.
func checkDocuments(paths installer.Paths) error {
	data, err := os.ReadFile(paths.Manifest())
	if err != nil {
		return err
	}
	manifest, err := compose.Parse(data)
	if err != nil {
		return err
	}
	if err := manifest.Validate(); err != nil {
		return err
	}

	if data, err = os.ReadFile(paths.LavalinkConfig()); err != nil {
		return err
	}
	_, err = lavalink.Parse(data)
	return err
}
