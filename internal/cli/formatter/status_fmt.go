package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// FormatStatus renders the full status view of one simulation: the plan
// against its ceilings, the current period and its risk, every period, per
// category progress, the forecast and any warnings.
func FormatStatus(v *contract.SimulationStatusView) string {
	var b strings.Builder

	b.WriteString(RenderBox(v.Name, formatSummary(v)))
	b.WriteString("\n\n")

	if v.Current != nil {
		b.WriteString(Header(fmt.Sprintf("Period %d", v.Current.ID)))
		b.WriteString("\n")
		b.WriteString(FormatPeriod(*v.Current))
		b.WriteString("\n")
	}

	b.WriteString(Header("Periods"))
	b.WriteString("\n")
	b.WriteString(formatPeriodTable(v.Periods, v.Current))
	b.WriteString("\n")

	b.WriteString(Header("Construction"))
	b.WriteString("\n")
	b.WriteString(formatProgressTable(v))
	b.WriteString(fmt.Sprintf("%s %s\n\n", Dim("Walls:"), WallsStageLabel(v.WallsStage)))

	b.WriteString(Header("Forecast"))
	b.WriteString("\n")
	b.WriteString(formatForecast(v.Forecast))

	if len(v.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range v.Warnings {
			b.WriteString(StyleYellow.Render("⚠ "+w) + "\n")
		}
	}

	return b.String()
}

func formatSummary(v *contract.SimulationStatusView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n",
		TruncID(v.ID), SimulationStatusPill(v.Status), Dim(fmt.Sprintf("seed %d", v.Seed)))
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		Dim("Budget"), Bold(FormatMoney(v.Budget)),
		Dim("Plan"), FormatMoney(v.TotalCost),
		Dim("Left"), BudgetIndicator(v.RemainingBudget))
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		Dim("Deadline"), Bold(FormatDays(v.Duration)),
		Dim("Plan"), FormatDays(v.TotalDuration),
		Dim("Left"), daysIndicator(v.RemainingDuration))
	fmt.Fprintf(&b, "%s %s   %s %s   %s %d",
		Dim("Reserve"), StyleBlue.Render(FormatMoney(v.Reserve)),
		Dim("Cash remainder"), FormatMoney(v.PlanningRemainder),
		Dim("Day"), v.LastDay)
	return b.String()
}

func daysIndicator(remaining int) string {
	if remaining < 0 {
		return StyleRed.Render(FormatDays(remaining))
	}
	return StyleGreen.Render(FormatDays(remaining))
}

// FormatPeriod describes one period and, when it carries a risk, the two
// ways of settling it.
func FormatPeriod(p contract.PeriodView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Days %d-%d  %s  %s\n",
		p.StartDay, p.EndDay, PeriodStatePill(p.State),
		Dim(fmt.Sprintf("%d/%d days played", p.DaysProcessed, p.EndDay-p.StartDay+1)))

	if p.Risk == nil {
		return b.String()
	}
	r := p.Risk
	fmt.Fprintf(&b, "%s %s %s\n", StyleRed.Render("Risk:"), Bold(r.Title), CategoryBadge(r.Category))
	if r.Description != "" {
		fmt.Fprintf(&b, "  %s\n", Dim(r.Description))
	}

	if p.Protected {
		line := "Protected: the " + string(r.Category) + " is not exposed this period."
		if p.Acknowledged {
			b.WriteString("  " + StyleGreen.Render(line+" Acknowledged.") + "\n")
		} else {
			b.WriteString("  " + StyleGreen.Render(line) + " " + Dim("Acknowledge to continue.") + "\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "  %s %s %s\n", marker(p, domain.SolutionPay), r.SolutionText,
		Dim(fmt.Sprintf("(costs %s over %s)", FormatMoney(r.Cost), FormatDays(r.Duration))))
	fmt.Fprintf(&b, "  %s %s %s\n", marker(p, domain.SolutionDelay), r.AlternativeText,
		Dim(fmt.Sprintf("(adds %s)", FormatDays(r.Duration))))
	return b.String()
}

func marker(p contract.PeriodView, s domain.Solution) string {
	key := "[s]"
	if s == domain.SolutionDelay {
		key = "[a]"
	}
	if p.Selected != nil && *p.Selected == s {
		return StyleGreen.Render("✔ " + key)
	}
	return StyleDim.Render("  " + key)
}

func formatPeriodTable(periods []contract.PeriodView, current *contract.PeriodView) string {
	rows := make([][]string, 0, len(periods))
	for _, p := range periods {
		id := fmt.Sprintf("%d", p.ID)
		if current != nil && current.ID == p.ID {
			id = StyleHeader.Render("▸ " + id)
		}
		rows = append(rows, []string{
			id,
			fmt.Sprintf("%d-%d", p.StartDay, p.EndDay),
			PeriodStatePill(p.State),
			riskLabel(p),
			DecisionLabel(p),
		})
	}
	return RenderTable([]string{"#", "DAYS", "STATE", "RISK", "DECISION"}, rows)
}

func riskLabel(p contract.PeriodView) string {
	if p.Risk == nil {
		return Dim("--")
	}
	return p.Risk.Title
}

// DecisionLabel summarises how a period's risk was settled.
func DecisionLabel(p contract.PeriodView) string {
	switch {
	case p.Risk == nil:
		return Dim("--")
	case p.Protected && p.Acknowledged:
		return StyleGreen.Render("protected")
	case p.Selected != nil && *p.Selected == domain.SolutionPay:
		return StyleYellow.Render("paid")
	case p.Selected != nil && *p.Selected == domain.SolutionDelay:
		return StyleYellow.Render("delayed")
	case p.Protected:
		return Dim("protected, not acknowledged")
	default:
		return Dim("pending")
	}
}

func formatProgressTable(v *contract.SimulationStatusView) string {
	rows := make([][]string, 0, len(v.Progress))
	for _, cp := range v.Progress {
		option := Dim("--")
		if cp.OptionID != "" {
			option = cp.OptionID
		}
		advance := Dim("--")
		if cp.Advance > 0 {
			advance = FormatMoney(cp.Advance)
		}
		rows = append(rows, []string{
			CategoryBadge(cp.Category),
			option,
			fmt.Sprintf("%d/%d", cp.Paid, cp.Total),
			RenderProgress(cp.Paid, cp.Total, 12),
			advance,
		})
	}
	return RenderTable([]string{"CATEGORY", "OPTION", "DAYS", "PROGRESS", "ADVANCE"}, rows, 4)
}

// WallsStageLabel names how many storeys of walls are standing.
func WallsStageLabel(s domain.WallsStage) string {
	switch s {
	case domain.WallsFirstFloor:
		return StyleBlue.Render("first floor")
	case domain.WallsSecondFloor:
		return StyleGreen.Render("second floor")
	default:
		return Dim("not started")
	}
}

func formatForecast(f contract.ForecastView) string {
	cost := FormatMoney(f.ProjectedCost)
	if f.OverBudget {
		cost = StyleRed.Render(cost)
	} else {
		cost = StyleGreen.Render(cost)
	}
	duration := FormatDays(f.ProjectedDuration)
	if f.Late {
		duration = StyleRed.Render(duration)
	} else {
		duration = StyleGreen.Render(duration)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Projected cost    "), cost, Dim("of "+FormatMoney(f.Budget)))
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Projected duration"), duration, Dim("of "+FormatDays(f.Deadline)))
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n",
		Dim("Spent"), FormatMoney(f.Spent),
		Dim("Risk cost"), FormatMoney(f.RiskCost),
		Dim("Extra"), FormatDays(f.ExtraDays),
		Dim("Idle"), FormatDays(f.IdleDays))
	return b.String()
}
