package service

import (
	"fmt"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/engine"
)

// buildStatusView assembles the read model shown by `sim status` and the
// play view. It is recomputed from the engine on every call.
func buildStatusView(rec *domain.SimulationRecord, sim *engine.Simulation) *contract.SimulationStatusView {
	plan := sim.Plan()
	view := &contract.SimulationStatusView{
		ID:                rec.ID,
		DisplayID:         rec.DisplayID(),
		Name:              rec.Name,
		Status:            rec.Status,
		Seed:              rec.Seed,
		Budget:            plan.Budget,
		Duration:          plan.Duration,
		TotalCost:         sim.TotalCost(),
		TotalDuration:     sim.TotalDuration(),
		RemainingBudget:   sim.RemainingBudget(),
		RemainingDuration: sim.RemainingDuration(),
		Reserve:           sim.Reserve(),
		PlanningRemainder: sim.PlanningRemainder(),
		LastDay:           sim.LastDay(),
		Selections:        plan.Selected(),
		WallsStage:        sim.WallsStage(),
	}

	current, running := sim.CurrentPeriod()
	for _, p := range sim.Periods() {
		pv := periodView(sim, p)
		view.Periods = append(view.Periods, pv)
		if running && p.ID == current.ID {
			cur := pv
			view.Current = &cur
		}
	}

	for _, cp := range sim.Progress() {
		view.Progress = append(view.Progress, contract.CategoryProgressView{
			Category: cp.Category,
			OptionID: cp.Option,
			Paid:     cp.Paid,
			Total:    cp.Total,
			Complete: cp.Complete,
			Advance:  sim.AdvanceAvailable(cp.Category),
		})
	}

	f := sim.Forecast()
	view.Forecast = contract.ForecastView{
		PlannedCost:       f.PlannedCost,
		PlannedDuration:   f.PlannedDuration,
		Budget:            f.Budget,
		Deadline:          f.Deadline,
		Spent:             f.Spent,
		RiskCost:          f.RiskCost,
		ExtraDays:         f.ExtraDays,
		IdleDays:          f.IdleDays,
		ProjectedCost:     f.ProjectedCost,
		ProjectedDuration: f.ProjectedDuration,
		OverBudget:        f.OverBudget(),
		Late:              f.Late(),
	}

	if rb := sim.RemainingBudget(); rb < 0 {
		view.Warnings = append(view.Warnings, fmt.Sprintf("plan exceeds the budget by %d", -rb))
	}
	if rd := sim.RemainingDuration(); rd < 0 {
		view.Warnings = append(view.Warnings, fmt.Sprintf("plan exceeds the deadline by %d days", -rd))
	}
	if f.IdleDays > 0 {
		view.Warnings = append(view.Warnings, fmt.Sprintf("%d idle days so far", f.IdleDays))
	}
	return view
}

func periodView(sim *engine.Simulation, p domain.Period) contract.PeriodView {
	processed := 0
	if p.Length() > 0 {
		processed = min(p.Length(), max(0, sim.LastDay()-p.StartDay+1))
	}
	return contract.PeriodView{
		ID:            p.ID,
		StartDay:      p.StartDay,
		EndDay:        p.EndDay,
		State:         p.State(),
		Risk:          p.Risk,
		Selected:      p.Selected,
		Acknowledged:  p.Acknowledged,
		Protected:     sim.Protected(p.ID),
		DaysProcessed: processed,
	}
}
