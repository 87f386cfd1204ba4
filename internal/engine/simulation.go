package engine

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// Simulation replays a plan day by day. It owns the periods, the reserve and
// the day history; nothing else mutates them. A Simulation is not safe for
// concurrent use.
type Simulation struct {
	plan     domain.Plan
	periods  []domain.Period
	funding  []domain.FundingPlanItem
	payments []domain.PaymentScheduleItem
	assigner *RiskAssigner

	reserve   int
	remainder int
	lastDay   int
	current   int

	history  [][]domain.DayRecord
	pending  []domain.DayRecord
	changes  []domain.ConstructionChange
	advances []domain.Advance
	posted   map[domain.Category]bool
}

// New initialises a simulation from a finalised plan: it derives both
// schedules, partitions the periods and assigns the first risk. The planning
// remainder starts as the unallocated budget.
func New(plan domain.Plan, assigner *RiskAssigner) (*Simulation, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	periods, err := PartitionPeriods(plan.TotalDuration(), PeriodCount)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		plan:      plan.Clone(),
		periods:   periods,
		assigner:  assigner,
		remainder: max(0, plan.RemainingBudget()),
		history:   make([][]domain.DayRecord, 0, len(periods)),
		posted:    make(map[domain.Category]bool),
	}
	s.rederive()
	s.assigner.Assign(s.periods, s.periods[0].ID)
	return s, nil
}

func (s *Simulation) rederive() {
	s.funding = FundingPlan(s.plan)
	s.payments = PaymentPlan(s.plan)
}

// SelectOption swaps the option of a category while the simulation runs.
// Both schedules are re-derived immediately and the unsealed periods are
// re-partitioned over the new total duration; days already processed are not
// touched. Changes that would end the plan before the last processed day,
// and changes after completion, are refused. The change is recorded for
// auditing.
func (s *Simulation) SelectOption(opt domain.ConstructionOption) (domain.ConstructionChange, bool) {
	if s.Done() || opt.Cost <= 0 || opt.Duration <= 0 || !domain.ValidCategories[string(opt.Category)] {
		return domain.ConstructionChange{}, false
	}
	prev, had := s.plan.Option(opt.Category)
	if had && prev.ID == opt.ID {
		return domain.ConstructionChange{}, false
	}

	change := domain.ConstructionChange{
		Day:           s.lastDay,
		Category:      opt.Category,
		ToOptionID:    opt.ID,
		CostDelta:     opt.Cost,
		DurationDelta: opt.Duration,
	}
	if had {
		change.FromOptionID = prev.ID
		change.CostDelta -= prev.Cost
		change.DurationDelta -= prev.Duration
	}

	next := s.plan.Clone()
	next.Select(opt)
	if next.TotalDuration() < s.lastDay {
		return domain.ConstructionChange{}, false
	}

	s.plan = next
	s.changes = append(s.changes, change)
	s.rederive()
	s.repartition()
	return change, true
}

// repartition lays the unsealed periods over the days that follow the sealed
// ones, up to the plan's total duration. A period with processed days keeps
// its start and every processed day.
func (s *Simulation) repartition() {
	p := s.currentPeriod()
	if p == nil {
		return
	}
	total := s.plan.TotalDuration()
	rest := s.periods[s.current+1:]
	switch {
	case len(rest) == 0:
		p.EndDay = total
	case s.lastDay >= p.StartDay:
		p.EndDay = max(s.lastDay, min(p.EndDay, total))
		spreadDays(rest, p.EndDay+1, total)
	default:
		spreadDays(s.periods[s.current:], p.StartDay, total)
	}
}

// ── Period controller ────────────────────────────────────────────────────────

// ResolveRisk records the choice for a period's risk once. It is a no-op on
// periods without a risk, already resolved or sealed periods.
func (s *Simulation) ResolveRisk(periodID int, choice domain.Solution) bool {
	if choice != domain.SolutionPay && choice != domain.SolutionDelay {
		return false
	}
	p := s.period(periodID)
	if p == nil {
		return false
	}
	return p.Resolve(choice)
}

// AcknowledgeRisk settles a protected risk without choosing a solution.
func (s *Simulation) AcknowledgeRisk(periodID int) bool {
	p := s.period(periodID)
	if p == nil || p.Risk == nil || p.Sealed || p.Settled() {
		return false
	}
	if !s.Protected(periodID) {
		return false
	}
	p.Acknowledged = true
	return true
}

// Protected reports whether a period's risk cannot touch the build: its
// category is not under construction during the period, or the selected
// option is not of an affected style.
func (s *Simulation) Protected(periodID int) bool {
	p := s.period(periodID)
	if p == nil || p.Risk == nil {
		return false
	}
	for _, b := range Blocks(s.plan) {
		if b.Option.Category != p.Risk.Category {
			continue
		}
		overlaps := b.StartDay <= p.EndDay && b.EndDay >= p.StartDay
		return !overlaps || !p.Risk.AppliesTo(b.Option)
	}
	return true
}

// AdvancePeriod seals the current period and moves to the next one,
// assigning its risk. It refuses, leaving state unchanged, while days of the
// period are unprocessed or its risk is unsettled.
func (s *Simulation) AdvancePeriod() error {
	p := s.currentPeriod()
	if p == nil {
		return ErrSimulationComplete
	}
	if s.lastDay < p.EndDay {
		return fmt.Errorf("%w: period %d ends on day %d, last processed day is %d",
			ErrPeriodIncomplete, p.ID, p.EndDay, s.lastDay)
	}
	if !p.Settled() {
		return fmt.Errorf("%w: period %d", ErrRiskUnsettled, p.ID)
	}

	p.Sealed = true
	sealed := s.pending
	if sealed == nil {
		sealed = []domain.DayRecord{}
	}
	s.history = append(s.history, sealed)
	s.pending = nil
	s.current++

	if next := s.currentPeriod(); next != nil {
		s.assigner.Assign(s.periods, next.ID)
	}
	return nil
}

// ProcessPeriod processes every remaining day of the current period in
// order and returns the records appended.
func (s *Simulation) ProcessPeriod() []domain.DayRecord {
	p := s.currentPeriod()
	if p == nil {
		return nil
	}
	var out []domain.DayRecord
	for day := s.lastDay + 1; day <= p.EndDay; day++ {
		if rec, ok := s.ProcessDay(day); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Done reports whether every period has been sealed.
func (s *Simulation) Done() bool {
	return s.current >= len(s.periods)
}

// ── Read accessors ───────────────────────────────────────────────────────────

func (s *Simulation) Plan() domain.Plan { return s.plan.Clone() }

func (s *Simulation) TotalCost() int { return s.plan.TotalCost() }

func (s *Simulation) TotalDuration() int { return s.plan.TotalDuration() }

func (s *Simulation) RemainingBudget() int { return s.plan.RemainingBudget() }

func (s *Simulation) RemainingDuration() int { return s.plan.RemainingDuration() }

func (s *Simulation) Reserve() int { return s.reserve }

func (s *Simulation) PlanningRemainder() int { return s.remainder }

// LastDay is the last processed calendar day, 0 before the first.
func (s *Simulation) LastDay() int { return s.lastDay }

// Periods returns a copy of every period.
func (s *Simulation) Periods() []domain.Period {
	out := make([]domain.Period, len(s.periods))
	for i, p := range s.periods {
		out[i] = p.Clone()
	}
	return out
}

// CurrentPeriod returns a copy of the period being played.
func (s *Simulation) CurrentPeriod() (domain.Period, bool) {
	p := s.currentPeriod()
	if p == nil {
		return domain.Period{}, false
	}
	return p.Clone(), true
}

// History returns sealed records followed by the current period's records.
func (s *Simulation) History() []domain.DayRecord {
	var out []domain.DayRecord
	for _, sealed := range s.history {
		out = append(out, sealed...)
	}
	return append(out, s.pending...)
}

// SealedHistory returns the records of each sealed period, in period order.
func (s *Simulation) SealedHistory() [][]domain.DayRecord {
	out := make([][]domain.DayRecord, len(s.history))
	for i, h := range s.history {
		out[i] = slices.Clone(h)
	}
	return out
}

// PendingRecords returns the current period's in-progress records.
func (s *Simulation) PendingRecords() []domain.DayRecord {
	return slices.Clone(s.pending)
}

func (s *Simulation) FundingPlan() []domain.FundingPlanItem {
	return slices.Clone(s.funding)
}

func (s *Simulation) PaymentPlan() []domain.PaymentScheduleItem {
	return slices.Clone(s.payments)
}

func (s *Simulation) Changes() []domain.ConstructionChange {
	return slices.Clone(s.changes)
}

func (s *Simulation) Advances() []domain.Advance {
	return slices.Clone(s.advances)
}

func (s *Simulation) currentPeriod() *domain.Period {
	if s.current < 0 || s.current >= len(s.periods) {
		return nil
	}
	return &s.periods[s.current]
}

func (s *Simulation) period(id int) *domain.Period {
	if id < 1 || id > len(s.periods) {
		return nil
	}
	return &s.periods[id-1]
}
