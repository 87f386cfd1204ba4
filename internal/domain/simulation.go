package domain

import "time"

// SimulationRecord is the persisted header of a simulation. The engine
// state itself travels as an opaque snapshot.
type SimulationRecord struct {
	ID        string
	Name      string
	Status    SimulationStatus
	Budget    int
	Duration  int
	Seed      uint64
	Snapshot  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns the first 8 characters of the ID.
func (s *SimulationRecord) DisplayID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// Result is the final outcome of a completed simulation.
type Result struct {
	SimulationID    string
	Name            string
	PlannedCost     int
	PlannedDuration int
	ActualCost      int
	ActualDuration  int
	IdleDays        int
	RiskCost        int
	ExtraDays       int
	ReserveLeft     int
	CompletedAt     time.Time
}

// OnBudget reports whether the build stayed within its planned cost.
func (r Result) OnBudget() bool {
	return r.ActualCost <= r.PlannedCost
}

// OnTime reports whether the build finished within its planned duration.
func (r Result) OnTime() bool {
	return r.ActualDuration <= r.PlannedDuration
}
