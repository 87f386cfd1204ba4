package contract

import "github.com/alexanderramin/housebudget/internal/domain"

type PeriodView struct {
	ID            int
	StartDay      int
	EndDay        int
	State         domain.PeriodState
	Risk          *domain.Risk
	Selected      *domain.Solution
	Acknowledged  bool
	Protected     bool
	DaysProcessed int
}

// NeedsDecision reports whether the period blocks until a solution is
// chosen or the risk is acknowledged.
func (p PeriodView) NeedsDecision() bool {
	return p.State == domain.PeriodAwaitingResolution
}

type CategoryProgressView struct {
	Category domain.Category
	OptionID string
	Paid     int
	Total    int
	Complete bool
	// Advance is the part of the category's funding still available early.
	Advance int
}

type ForecastView struct {
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
	OverBudget        bool
	Late              bool
}

type SimulationStatusView struct {
	ID                string
	DisplayID         string
	Name              string
	Status            domain.SimulationStatus
	Seed              uint64
	Budget            int
	Duration          int
	TotalCost         int
	TotalDuration     int
	RemainingBudget   int
	RemainingDuration int
	Reserve           int
	PlanningRemainder int
	LastDay           int
	Selections        []domain.ConstructionOption
	Current           *PeriodView
	Periods           []PeriodView
	Progress          []CategoryProgressView
	WallsStage        domain.WallsStage
	Forecast          ForecastView
	Warnings          []string
}

func (v *SimulationStatusView) Done() bool {
	return v.Status == domain.SimulationCompleted
}
