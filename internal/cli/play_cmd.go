package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newPlayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "play ID",
		Short: "Play a simulation in a full-screen view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("play needs an interactive terminal; use the sim subcommands instead")
			}
			rec, err := app.Simulations.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				newPlayModel(app, rec.ID),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
}
