package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// FormatSimulationList renders one row per simulation, newest first as
// given.
func FormatSimulationList(sims []*domain.SimulationRecord) string {
	if len(sims) == 0 {
		return Dim("No simulations. Start one with `housebudget sim new`.") + "\n"
	}
	rows := make([][]string, 0, len(sims))
	for _, s := range sims {
		rows = append(rows, []string{
			TruncID(s.ID),
			Truncate(s.Name, 32),
			SimulationStatusPill(s.Status),
			FormatMoney(s.Budget),
			FormatDays(s.Duration),
			HumanTimestamp(s.CreatedAt),
		})
	}
	return RenderTable([]string{"ID", "NAME", "STATUS", "BUDGET", "DEADLINE", "CREATED"}, rows, 3)
}

// FormatLeaderboard ranks finished builds by duration, then cost.
func FormatLeaderboard(entries []contract.LeaderboardEntry) string {
	if len(entries) == 0 {
		return Dim("No finished simulations yet.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		r := e.Result
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			Truncate(r.Name, 32),
			outcome(FormatDays(r.ActualDuration), r.OnTime()),
			outcome(FormatMoney(r.ActualCost), r.OnBudget()),
			fmt.Sprintf("%d", r.IdleDays),
			TruncID(r.SimulationID),
		})
	}
	return RenderTable([]string{"#", "NAME", "DURATION", "COST", "IDLE", "ID"}, rows, 3)
}

func outcome(text string, ok bool) string {
	if ok {
		return StyleGreen.Render(text)
	}
	return StyleRed.Render(text)
}

// FormatResult renders the final report of one simulation.
func FormatResult(r domain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Cost    "),
		outcome(FormatMoney(r.ActualCost), r.OnBudget()), Dim("planned "+FormatMoney(r.PlannedCost)))
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Duration"),
		outcome(FormatDays(r.ActualDuration), r.OnTime()), Dim("planned "+FormatDays(r.PlannedDuration)))
	fmt.Fprintf(&b, "%s %s   %s %s   %s %d   %s %s",
		Dim("Risk cost"), FormatMoney(r.RiskCost),
		Dim("Extra"), FormatDays(r.ExtraDays),
		Dim("Idle"), r.IdleDays,
		Dim("Reserve left"), FormatMoney(r.ReserveLeft))
	return RenderBox("Result: "+r.Name, b.String())
}
