package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/spf13/cobra"
)

type actionFunc func(ctx context.Context, id string) (*contract.ActionResult, error)

// runAction executes one mutating call and prints what happened. A call
// the simulation refuses is reported but is not an error.
func runAction(cmd *cobra.Command, app *App, id string, fn actionFunc) error {
	ctx := context.Background()
	res, err := fn(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAction(res))
	if res.Applied && res.Status != nil && res.Status.Done() {
		return printResult(ctx, cmd, app, res.Status.ID)
	}
	return nil
}

func newSimSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select ID CATEGORY OPTION",
		Short: "Switch a category to another option",
		Long: `Switch a category to another option. Before the first day this edits the
plan; afterwards it re-plans the remaining schedule and records the change.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := resolveCategory(args[1])
			if err != nil {
				return err
			}
			opt, err := resolveOption(app, category, args[2])
			if err != nil {
				return err
			}
			return runAction(cmd, app, args[0], func(ctx context.Context, id string) (*contract.ActionResult, error) {
				return app.Simulations.SelectOption(ctx, id, opt.ID)
			})
		},
	}
}

func newSimResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ID solution|alternative",
		Short: "Settle the current period's risk",
		Long: `Settle the current period's risk. "solution" (or pay, s) pays the risk cost
spread over its duration; "alternative" (or delay, a) adds its duration in
days instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, ok := domain.ParseSolution(args[1])
			if !ok {
				return fmt.Errorf("unknown choice %q: use solution or alternative", args[1])
			}
			return runAction(cmd, app, args[0], func(ctx context.Context, id string) (*contract.ActionResult, error) {
				return app.Simulations.ResolveRisk(ctx, id, choice)
			})
		},
	}
}

func newSimAckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ack ID",
		Short: "Acknowledge a risk the current plan is protected from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, app, args[0], app.Simulations.AcknowledgeRisk)
		},
	}
}

func newSimDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day ID",
		Short: "Play the next day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, app, args[0], app.Simulations.ProcessDay)
		},
	}
}

func newSimRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run ID",
		Short: "Play the rest of the current period and move to the next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, app, args[0], app.Simulations.RunPeriod)
		},
	}
}

func newSimAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance ID",
		Short: "Seal a fully played period and open the next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, app, args[0], app.Simulations.AdvancePeriod)
		},
	}
}

func newSimCashCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cash ID AMOUNT",
		Short: "Move unplanned budget into the reserve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runAction(cmd, app, args[0], func(ctx context.Context, id string) (*contract.ActionResult, error) {
				return app.Simulations.RequestCash(ctx, id, amount)
			})
		},
	}
}

func newSimDrawCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "draw ID CATEGORY AMOUNT",
		Short: "Draw a category's future funding into the reserve early",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := resolveCategory(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runAction(cmd, app, args[0], func(ctx context.Context, id string) (*contract.ActionResult, error) {
				return app.Simulations.RequestAdvance(ctx, id, category, amount)
			})
		},
	}
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be a whole number", s)
	}
	return n, nil
}
