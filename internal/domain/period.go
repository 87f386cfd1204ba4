package domain

// Period is a contiguous, inclusive range of simulated days carrying at most
// one risk.
type Period struct {
	ID           int
	StartDay     int
	EndDay       int
	Risk         *Risk
	Selected     *Solution
	Acknowledged bool
	Sealed       bool
}

// Length is the number of days in the period. Leading periods of a very
// short plan can be empty.
func (p *Period) Length() int {
	if p.EndDay < p.StartDay {
		return 0
	}
	return p.EndDay - p.StartDay + 1
}

func (p *Period) Contains(day int) bool {
	return day >= p.StartDay && day <= p.EndDay
}

func (p *Period) HasRisk() bool {
	return p.Risk != nil
}

// IsResolved reports whether a solution was chosen. Acknowledgement of a
// protected risk does not count.
func (p *Period) IsResolved() bool {
	return p.Selected != nil
}

// Settled reports whether the period's risk no longer blocks sealing.
func (p *Period) Settled() bool {
	return p.Risk == nil || p.Selected != nil || p.Acknowledged
}

// Resolve records choice once. Later calls, calls on a period without a
// risk and calls after an acknowledgement leave the period untouched and
// return false.
func (p *Period) Resolve(choice Solution) bool {
	if p.Risk == nil || p.Selected != nil || p.Acknowledged || p.Sealed {
		return false
	}
	c := choice
	p.Selected = &c
	return true
}

// State derives the controller state from the period's fields.
func (p *Period) State() PeriodState {
	switch {
	case p.Sealed:
		return PeriodSealed
	case p.Risk == nil:
		return PeriodOpen
	case p.Settled():
		return PeriodResolved
	default:
		return PeriodAwaitingResolution
	}
}

// Clone copies the period including its risk pointer targets.
func (p Period) Clone() Period {
	out := p
	if p.Risk != nil {
		r := *p.Risk
		r.Styles = append([]string(nil), p.Risk.Styles...)
		out.Risk = &r
	}
	if p.Selected != nil {
		s := *p.Selected
		out.Selected = &s
	}
	return out
}
