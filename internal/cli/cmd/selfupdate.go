package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
)

// githubRepoSlug is the repository checked for new releases.
const githubRepoSlug = "melodix-project/maestro"

// NewSelfUpdateCommand creates the self-update command, replacing the
// running binary with the latest GitHub release.
func NewSelfUpdateCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:          "self-update",
		Short:        "Update maestro to the latest release",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			current := a.Build.Version
			if current == "" || current == "dev" {
				return fmt.Errorf("cannot self-update a development build")
			}

			fmt.Printf("Current version: %s\n", current)
			fmt.Println("Checking for updates...")

			updater, err := selfupdate.NewUpdater(selfupdate.Config{})
			if err != nil {
				return fmt.Errorf("failed to create updater: %w", err)
			}

			ctx := command.Context()
			latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
			if err != nil {
				return fmt.Errorf("error detecting latest version: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", githubRepoSlug)
			}
			if !latest.GreaterThan(current) {
				fmt.Println("Current version is the latest.")
				return nil
			}

			fmt.Printf("Found newer version: %s (published %s)\n", latest.Version(), latest.PublishedAt)

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("could not locate executable path: %w", err)
			}
			if err := updater.UpdateTo(ctx, latest, exe); err != nil {
				return fmt.Errorf("update failed: %w", err)
			}

			fmt.Printf("Updated to version %s\n", latest.Version())
			return nil
		},
	}
}
