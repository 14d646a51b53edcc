package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/installer"
	"github.com/melodix-project/maestro/internal/journal"
	"github.com/melodix-project/maestro/internal/provision"
	"github.com/melodix-project/maestro/internal/tui"
	"github.com/melodix-project/maestro/pkg/docker"
	"github.com/melodix-project/maestro/pkg/logger"
)

// NewInstallCommand creates the install command, the full workflow: collect
// settings, reconcile the stack documents, write them, bring the stack up.
func NewInstallCommand(a *cli.App) *cobra.Command {
	var opts installer.Options

	command := &cobra.Command{
		Use:          "install",
		Short:        "Install and start the Melodix stack",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !opts.Quiet {
				installer.PrintBanner(a.Build.Version)
			}
			return runInstall(ctx, a, opts)
		},
	}

	command.Flags().StringVar(&opts.Dir, "dir", ".", "install directory for the stack documents")
	command.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "never prompt, read everything from MAESTRO_* variables")
	command.Flags().BoolVar(&opts.Fetch, "fetch", false, "download current document templates instead of the embedded ones")
	command.Flags().BoolVar(&opts.Quiet, "quiet", false, "no banner, spinners or readiness view")
	command.Flags().BoolVar(&opts.SkipStart, "skip-start", false, "write the documents but do not start the stack")

	return command
}

func runInstall(ctx context.Context, a *cli.App, opts installer.Options) error {
	workflow := installer.New(opts)

	if j, err := journal.Open(opts.Dir); err != nil {
		logger.Warn("Run journal unavailable", "error", err)
	} else {
		workflow.Journal = j
		defer j.Close()
	}

	if err := workflow.Run(ctx); err != nil {
		if cancelled(ctx, err) {
			color.Yellow("Installation cancelled by user")
		}
		return err
	}

	if opts.SkipStart {
		installer.PrintWritten(workflow.Bundle)
		return nil
	}

	if !opts.Quiet {
		watchReadiness(ctx, workflow)
		showStatus(ctx, workflow.Provisioner, opts.Dir)
		installer.PrintSummary(workflow.Bundle)
	}
	return nil
}

// watchReadiness runs the readiness view. It is advisory only: the stack is
// already started, so any failure here just ends the view.
func watchReadiness(ctx context.Context, workflow *installer.Workflow) {
	client, err := docker.New()
	if err != nil {
		logger.Warn("Cannot watch readiness without engine access", "error", err)
		return
	}
	defer client.Close()

	project := provision.ProjectName(workflow.Bundle.InstallDir)
	ready, err := tui.RunReadiness(ctx, client, project, workflow.Bundle.EnabledServices())
	if err != nil {
		logger.Warn("Readiness watch ended early", "error", err)
		return
	}
	if !ready {
		logger.Info("Stack still starting, check progress with: docker compose ps")
	}
}

func showStatus(ctx context.Context, p provision.Provisioner, dir string) {
	output, err := p.Status(ctx, dir)
	if err != nil {
		logger.Warn("Could not read stack status", "error", err)
		return
	}
	fmt.Print(output)
}

// cancelled reports whether err is a user interrupt rather than a failure.
func cancelled(ctx context.Context, err error) bool {
	return errors.Is(err, terminal.InterruptErr) || errors.Is(err, context.Canceled) || ctx.Err() != nil
}
