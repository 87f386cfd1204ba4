package engine

import (
	"time"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// Forecast projects where the build ends up given the decisions taken so far.
type Forecast struct {
	PlannedCost       int
	PlannedDuration   int
	Budget            int
	Deadline          int
	Spent             int
	RiskCost          int
	ExtraDays         int
	IdleDays          int
	ProjectedCost     int
	ProjectedDuration int
}

func (f Forecast) OverBudget() bool { return f.ProjectedCost > f.Budget }

func (f Forecast) Late() bool { return f.ProjectedDuration > f.Deadline }

// Forecast sums the resolved risks and the ledger. Risks paid with
// SolutionPay add their cost; SolutionDelay adds their days. Idle days push
// the end date back one day each.
func (s *Simulation) Forecast() Forecast {
	f := Forecast{
		PlannedCost:     s.plan.TotalCost(),
		PlannedDuration: s.plan.TotalDuration(),
		Budget:          s.plan.Budget,
		Deadline:        s.plan.Duration,
	}
	for _, p := range s.periods {
		if p.Risk == nil || p.Selected == nil {
			continue
		}
		switch *p.Selected {
		case domain.SolutionPay:
			f.RiskCost += p.Risk.Cost
		case domain.SolutionDelay:
			f.ExtraDays += p.Risk.Duration
		}
	}
	for _, r := range s.History() {
		f.Spent += r.IssuedMoney
		if r.IsIdle {
			f.IdleDays++
		}
	}
	f.ProjectedCost = f.PlannedCost + f.RiskCost
	f.ProjectedDuration = f.PlannedDuration + f.ExtraDays + f.IdleDays
	return f
}

// Result summarises a finished simulation for the leaderboard.
func (s *Simulation) Result(id, name string, at time.Time) domain.Result {
	f := s.Forecast()
	return domain.Result{
		SimulationID:    id,
		Name:            name,
		PlannedCost:     f.PlannedCost,
		PlannedDuration: f.PlannedDuration,
		ActualCost:      f.ProjectedCost,
		ActualDuration:  f.ProjectedDuration,
		IdleDays:        f.IdleDays,
		RiskCost:        f.RiskCost,
		ExtraDays:       f.ExtraDays,
		ReserveLeft:     s.reserve,
		CompletedAt:     at,
	}
}
