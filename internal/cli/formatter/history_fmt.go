package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// FormatHistory renders the day ledger followed by any mid-build option
// changes.
func FormatHistory(records []domain.DayRecord, changes []domain.ConstructionChange) string {
	if len(records) == 0 && len(changes) == 0 {
		return Dim("No days played yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header("Ledger"))
	b.WriteString("\n")

	rows := make([][]string, 0, len(records))
	issued := 0
	idle := 0
	for _, r := range records {
		issued += r.IssuedMoney
		if r.IsIdle {
			idle++
		}
		rows = append(rows, DayRow(r))
	}
	b.WriteString(RenderTable([]string{"DAY", "PERIOD", "WORK", "REQUIRED", "ISSUED", ""}, rows, 3, 4))
	fmt.Fprintf(&b, "%s %s   %s %d\n",
		Dim("Issued"), FormatMoney(issued), Dim("Idle days"), idle)

	if len(changes) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Changes"))
		b.WriteString("\n")
		for _, c := range changes {
			b.WriteString(FormatChange(c))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// DayRow is one ledger line: day, period, category, required, issued, state.
func DayRow(r domain.DayRecord) []string {
	work := Dim("--")
	if name := r.CategoryName(); name != "" {
		work = CategoryBadge(domain.Category(name))
	}
	state := StyleGreen.Render("paid")
	if r.IsIdle {
		state = StyleRed.Render("idle")
	}
	return []string{
		fmt.Sprintf("%d", r.Day),
		fmt.Sprintf("%d", r.PeriodID),
		work,
		FormatMoney(r.RequiredMoney),
		FormatMoney(r.IssuedMoney),
		state,
	}
}

// FormatChange renders a re-selection with its signed deltas.
func FormatChange(c domain.ConstructionChange) string {
	return fmt.Sprintf("Day %d  %s %s → %s  %s",
		c.Day, CategoryBadge(c.Category), c.FromOptionID, Bold(c.ToOptionID),
		Dim(fmt.Sprintf("(cost %s, duration %s)", signed(c.CostDelta), signedDays(c.DurationDelta))))
}

func signed(n int) string {
	if n > 0 {
		return "+" + FormatMoney(n)
	}
	return FormatMoney(n)
}

func signedDays(n int) string {
	if n > 0 {
		return "+" + FormatDays(n)
	}
	return FormatDays(n)
}

// FormatAction renders the outcome of one mutating call: the days it
// played, any option change, and a one-line status footer.
func FormatAction(res *contract.ActionResult) string {
	var b strings.Builder
	if !res.Applied {
		b.WriteString(StyleYellow.Render("Not applied: "+res.Reason) + "\n")
		if res.Status != nil {
			b.WriteString(StatusLine(res.Status) + "\n")
		}
		return b.String()
	}

	if len(res.Records) > 0 {
		rows := make([][]string, 0, len(res.Records))
		for _, r := range res.Records {
			rows = append(rows, DayRow(r))
		}
		b.WriteString(RenderTable([]string{"DAY", "PERIOD", "WORK", "REQUIRED", "ISSUED", ""}, rows, 3, 4))
	}
	if res.Change != nil {
		b.WriteString(FormatChange(*res.Change) + "\n")
	}
	if res.Status != nil {
		b.WriteString(StatusLine(res.Status) + "\n")
		if res.Status.Done() {
			b.WriteString(StyleGreen.Render("✔ Construction finished.") + "\n")
		}
	}
	return b.String()
}

// StatusLine is the compact footer printed after every action.
func StatusLine(v *contract.SimulationStatusView) string {
	parts := []string{
		fmt.Sprintf("%s %d", Dim("day"), v.LastDay),
		fmt.Sprintf("%s %s", Dim("reserve"), StyleBlue.Render(FormatMoney(v.Reserve))),
		fmt.Sprintf("%s %s", Dim("cash"), FormatMoney(v.PlanningRemainder)),
	}
	if v.Current != nil {
		parts = append(parts, fmt.Sprintf("%s %d %s", Dim("period"), v.Current.ID, PeriodStatePill(v.Current.State)))
	} else {
		parts = append(parts, SimulationStatusPill(v.Status))
	}
	return strings.Join(parts, Dim(" · "))
}
