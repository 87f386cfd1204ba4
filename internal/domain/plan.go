package domain

import (
	"fmt"
	"maps"
)

// Plan is the user's allocation: at most one option per category, checked
// against a budget and a duration ceiling.
type Plan struct {
	Budget     int
	Duration   int
	Selections map[Category]ConstructionOption
}

// NewPlan returns an empty plan with the given ceilings.
func NewPlan(budget, duration int) Plan {
	return Plan{
		Budget:     budget,
		Duration:   duration,
		Selections: make(map[Category]ConstructionOption),
	}
}

// Select puts opt into its category slot, replacing any earlier choice.
// It returns the previous option if there was one.
func (p *Plan) Select(opt ConstructionOption) (ConstructionOption, bool) {
	if p.Selections == nil {
		p.Selections = make(map[Category]ConstructionOption)
	}
	prev, had := p.Selections[opt.Category]
	p.Selections[opt.Category] = opt
	return prev, had
}

// Option returns the selected option for c.
func (p Plan) Option(c Category) (ConstructionOption, bool) {
	opt, ok := p.Selections[c]
	return opt, ok
}

// Selected returns the chosen options in build order, skipping empty slots.
func (p Plan) Selected() []ConstructionOption {
	out := make([]ConstructionOption, 0, len(p.Selections))
	for _, c := range Categories {
		if opt, ok := p.Selections[c]; ok {
			out = append(out, opt)
		}
	}
	return out
}

func (p Plan) TotalCost() int {
	total := 0
	for _, opt := range p.Selections {
		total += opt.Cost
	}
	return total
}

func (p Plan) TotalDuration() int {
	total := 0
	for _, opt := range p.Selections {
		total += opt.Duration
	}
	return total
}

// RemainingBudget may be negative when the plan is over budget.
func (p Plan) RemainingBudget() int {
	return p.Budget - p.TotalCost()
}

// RemainingDuration may be negative when the plan overruns its deadline.
func (p Plan) RemainingDuration() int {
	return p.Duration - p.TotalDuration()
}

// Clone returns a deep copy so a simulation can own its plan.
func (p Plan) Clone() Plan {
	return Plan{
		Budget:     p.Budget,
		Duration:   p.Duration,
		Selections: maps.Clone(p.Selections),
	}
}

// Validate checks the ceilings and that every selection sits in its own slot.
func (p Plan) Validate() error {
	if p.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", p.Budget)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", p.Duration)
	}
	for c, opt := range p.Selections {
		if opt.Category != c {
			return fmt.Errorf("option %q belongs to %s, not %s", opt.ID, opt.Category, c)
		}
		if opt.Cost <= 0 || opt.Duration <= 0 {
			return fmt.Errorf("option %q must have positive cost and duration", opt.ID)
		}
	}
	return nil
}

// ConstructionChange records a re-selection made after the simulation started.
type ConstructionChange struct {
	Day           int
	Category      Category
	FromOptionID  string
	ToOptionID    string
	CostDelta     int
	DurationDelta int
}
