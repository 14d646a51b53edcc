package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/melodix-project/maestro/internal/cli"
	"github.com/melodix-project/maestro/internal/journal"
)

// NewHistoryCommand creates the history command, listing past provisioning
// runs from the install directory's journal.
func NewHistoryCommand(a *cli.App) *cobra.Command {
	var dir string
	var limit int

	command := &cobra.Command{
		Use:          "history",
		Short:        "List past provisioning runs",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			j, err := journal.Open(dir)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.List(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			renderHistory(entries)
			return nil
		},
	}

	command.Flags().StringVar(&dir, "dir", ".", "install directory of the stack")
	command.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return command
}

func renderHistory(entries []journal.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"When", "Result", "Services", "Detail"})
	for _, e := range entries {
		detail := e.Detail
		if e.ExitCode != 0 {
			detail = fmt.Sprintf("exit %d: %s", e.ExitCode, e.Detail)
		}
		t.AppendRow(table.Row{
			e.StartedAt.Local().Format(time.DateTime),
			e.Result,
			strings.Join(e.Services, ", "),
			detail,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
