package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/spf13/cobra"
)

func newResultsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Rank finished simulations by duration, then cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewLeaderboardRequest()
			if cmd.Flags().Changed("limit") {
				req.Limit = limit
			}

			entries, err := app.Results.Leaderboard(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeaderboard(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show")
	return cmd
}
