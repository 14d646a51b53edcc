// Package cmd assembles the maestro command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/cli/cmd"
	"github.com/melodix-project/maestro/internal/provision"
	"github.com/melodix-project/maestro/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Installer for the self-hosted Melodix music stack",
}

// InitializeCommands attaches every subcommand to the root.
func InitializeCommands(a *cli.App) {
	rootCmd.AddCommand(cmd.NewRootCommand(a))
	rootCmd.AddCommand(cmd.NewInstallCommand(a))
	rootCmd.AddCommand(cmd.NewApplyCommand(a))
	rootCmd.AddCommand(cmd.NewStatusCommand(a))
	rootCmd.AddCommand(cmd.NewDownCommand(a))
	rootCmd.AddCommand(cmd.NewHistoryCommand(a))
	rootCmd.AddCommand(cmd.NewWatchCommand(a))
	rootCmd.AddCommand(cmd.NewSelfUpdateCommand(a))
	rootCmd.AddCommand(cmd.NewVersionCommand(a))
}

// Execute runs the command tree. Exit codes: 1 for validation, schema and
// general failures, 2 when the orchestration tool itself failed.
func Execute(a *cli.App) {
	InitializeCommands(a)
	if err := rootCmd.Execute(); err != nil {
		var perr *provision.ProvisionError
		if errors.As(err, &perr) {
			if output := strings.TrimSpace(perr.Output); output != "" {
				fmt.Fprintln(os.Stderr, output)
			}
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// ExecuteCLI is main's entrypoint, fed the ldflags build values.
func ExecuteCLI(build, commit, date string) {
	logger.GetLogger().ConfigureFromEnv()

	a := cli.NewApp(cli.BuildInfo{Version: build, Commit: commit, Date: date})
	Execute(a)
}
