package installer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"

	"github.com/melodix-project/maestro/internal/config"
)

// PrintBanner opens an interactive run.
func PrintBanner(version string) {
	color.Green("Melodix installer %s", version)
	color.Blue("Running on %s/%s", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
}

// PrintSummary closes a successful run with the commands the user manages
// the stack with from here on.
func PrintSummary(b *config.Bundle) {
	fmt.Println()
	color.Green("The Melodix stack is up.")
	color.Green("Services: %s", strings.Join(b.EnabledServices(), ", "))
	if b.Dashboard.Enabled {
		color.Green("Dashboard: http://localhost:%d", b.Dashboard.Port)
	}
	fmt.Println()
	fmt.Println("Manage the stack from the install directory with:")
	fmt.Println("  docker compose up -d    start")
	fmt.Println("  docker compose down     stop")
	fmt.Println("  docker compose logs -f  follow logs")
	fmt.Println("  docker compose pull     update images")
}

// PrintWritten closes a run that stopped after writing the documents.
func PrintWritten(b *config.Bundle) {
	fmt.Println()
	color.Green("Documents written to %s.", b.InstallDir)
	fmt.Println("Start the stack with: docker compose up -d")
}
