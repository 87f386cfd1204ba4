package engine

import "github.com/alexanderramin/housebudget/internal/domain"

// CategoryProgress is the build progress of one category.
type CategoryProgress struct {
	Category domain.Category
	Option   string
	Paid     int
	Total    int
	Complete bool
}

// PaidDays counts the fully paid records attributed to c.
func PaidDays(records []domain.DayRecord, c domain.Category) int {
	n := 0
	for _, r := range records {
		if r.Is(c) && r.FullyPaid() {
			n++
		}
	}
	return n
}

// CategoryComplete reports whether c has as many fully paid days as its
// selected option lasts. Unselected or unstarted categories are incomplete.
func CategoryComplete(records []domain.DayRecord, plan domain.Plan, c domain.Category) bool {
	opt, ok := plan.Option(c)
	if !ok || opt.Duration <= 0 {
		return false
	}
	return PaidDays(records, c) >= opt.Duration
}

// WallsStageOf maps the walls progress onto the two storeys of the house.
// The first floor needs at least one paid day, so a one-day option goes
// straight from none to the second floor.
func WallsStageOf(records []domain.DayRecord, plan domain.Plan) domain.WallsStage {
	opt, ok := plan.Option(domain.CategoryWalls)
	if !ok || opt.Duration <= 0 {
		return domain.WallsNone
	}
	paid := PaidDays(records, domain.CategoryWalls)
	switch {
	case paid >= opt.Duration:
		return domain.WallsSecondFloor
	case paid >= opt.Duration/2 && paid > 0:
		return domain.WallsFirstFloor
	default:
		return domain.WallsNone
	}
}

// Progress returns one entry per category in build order.
func Progress(records []domain.DayRecord, plan domain.Plan) []CategoryProgress {
	out := make([]CategoryProgress, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		p := CategoryProgress{Category: c, Paid: PaidDays(records, c)}
		if opt, ok := plan.Option(c); ok {
			p.Option = opt.ID
			p.Total = opt.Duration
			p.Complete = p.Paid >= opt.Duration
		}
		out = append(out, p)
	}
	return out
}

// Progress is the projector applied to the simulation's current history.
func (s *Simulation) Progress() []CategoryProgress {
	return Progress(s.History(), s.plan)
}

// WallsStage is the walls stage for the simulation's current history.
func (s *Simulation) WallsStage() domain.WallsStage {
	return WallsStageOf(s.History(), s.plan)
}
