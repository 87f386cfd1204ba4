package cli

import (
	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/service"
	"github.com/spf13/cobra"
)

// PlanDefaults fill in the budget and deadline of a new plan when the
// command line leaves them out.
type PlanDefaults struct {
	Budget   int
	Duration int
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Simulations service.SimulationService
	Results     service.ResultService
	Import      service.PlanImportService
	Catalog     *catalog.Catalog
	Defaults    PlanDefaults

	// IsInteractive reports whether stdin is a terminal. Nil means never,
	// which keeps tests and pipes away from prompts.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "housebudget" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "housebudget",
		Short:         "Plan a house build and play it out against risks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCatalogCmd(app),
		newSimCmd(app),
		newResultsCmd(app),
		newPlayCmd(app),
	)

	return root
}
