package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/repository"
	"github.com/spf13/cobra"
)

func newSimCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sim",
		Aliases: []string{"s"},
		Short:   "Create and play simulations",
	}

	cmd.AddCommand(
		newSimNewCmd(app),
		newSimListCmd(app),
		newSimStatusCmd(app),
		newSimHistoryCmd(app),
		newSimRemoveCmd(app),
		newSimSelectCmd(app),
		newSimResolveCmd(app),
		newSimAckCmd(app),
		newSimDayCmd(app),
		newSimRunCmd(app),
		newSimAdvanceCmd(app),
		newSimCashCmd(app),
		newSimDrawCmd(app),
	)

	return cmd
}

func newSimNewCmd(app *App) *cobra.Command {
	var (
		name     string
		budget   int
		duration int
		seed     uint64
		file     string
		options  optionFlag
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a simulation from a plan",
		Long: `Start a simulation from a plan.

Pick one option per category with --option category=option, or load a JSON
plan file with --file. Without either, an interactive terminal opens the
plan wizard.`,
		Example: `  housebudget sim new --budget 55000 --duration 90 -o foundation=slab -o walls=brick
  housebudget sim new --file plan.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if file != "" {
				rec, err := app.Import.ImportPlan(ctx, file)
				if err != nil {
					return err
				}
				return printCreated(ctx, cmd, app, rec)
			}

			req := contract.CreateSimulationRequest{Name: name, Seed: seed}
			req.Plan = domain.NewPlan(orDefault(budget, app.Defaults.Budget), orDefault(duration, app.Defaults.Duration))

			for _, p := range options.pairs {
				opt, err := lookupOption(app, p)
				if err != nil {
					return err
				}
				if prev, had := req.Plan.Select(opt); had && prev.ID != opt.ID {
					return fmt.Errorf("%s is given twice (%s and %s)", opt.Category, prev.ID, opt.ID)
				}
			}

			if len(req.Plan.Selections) == 0 {
				if !app.interactive() {
					return errors.New("no options selected: pass --option category=option or --file")
				}
				answers := newPlanAnswers(req.Plan, name)
				if err := planWizardForm(app.Catalog, answers).Run(); err != nil {
					return err
				}
				plan, err := answers.plan(app.Catalog)
				if err != nil {
					return err
				}
				req.Plan = plan
				req.Name = answers.name
			}

			rec, err := app.Simulations.Create(ctx, req)
			if err != nil {
				return err
			}
			return printCreated(ctx, cmd, app, rec)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Simulation name")
	cmd.Flags().IntVar(&budget, "budget", 0, "Budget ceiling (default from config)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Deadline in days (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fix the risk draws (0 picks one)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Load the plan from a JSON file")
	cmd.Flags().VarP(&options, "option", "o", "Option per category, e.g. roof=metal (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("file", "option")

	return cmd
}

func lookupOption(app *App, p optionPair) (domain.ConstructionOption, error) {
	var category domain.Category
	if p.category != "" {
		c, err := resolveCategory(p.category)
		if err != nil {
			return domain.ConstructionOption{}, err
		}
		category = c
	}
	return resolveOption(app, category, p.option)
}

func orDefault(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func printCreated(ctx context.Context, cmd *cobra.Command, app *App, rec *domain.SimulationRecord) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created simulation %s [%s]\n\n", rec.Name, rec.DisplayID())
	status, err := app.Simulations.Status(ctx, rec.ID)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatter.FormatStatus(status))
	return nil
}

func newSimListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			sims, err := app.Simulations.List(context.Background(), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSimulationList(sims))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed simulations")
	return cmd
}

func newSimStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID",
		Short: "Show a simulation's plan, periods and forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			status, err := app.Simulations.Status(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatStatus(status))
			if status.Done() {
				return printResult(ctx, cmd, app, status.ID)
			}
			return nil
		},
	}
}

func printResult(ctx context.Context, cmd *cobra.Command, app *App, simulationID string) error {
	if app.Results == nil {
		return nil
	}
	result, err := app.Results.Get(ctx, simulationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", formatter.FormatResult(*result))
	return nil
}

func newSimHistoryCmd(app *App) *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "Show the day ledger and option changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if cmd.Flags().Changed("period") {
				records, err := app.Simulations.PeriodHistory(ctx, args[0], period)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(records, nil))
				return nil
			}
			records, err := app.Simulations.History(ctx, args[0])
			if err != nil {
				return err
			}
			changes, err := app.Simulations.Changes(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(records, changes))
			return nil
		},
	}
	cmd.Flags().IntVarP(&period, "period", "p", 0, "show only the days of one period")
	return cmd
}

func newSimRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a simulation (its result stays on the leaderboard)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rec, err := app.Simulations.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Simulations.Delete(ctx, rec.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed simulation %s [%s]\n", rec.Name, rec.DisplayID())
			return nil
		},
	}
}
