package engine

import "github.com/alexanderramin/housebudget/internal/domain"

// ProcessDay advances the ledger by exactly one day. Days must be processed
// in ascending order inside the current period, and only once the period's
// risk is settled; anything else is a no-op.
// When no category is scheduled on day the day still counts as processed but
// no record is appended. ok reports whether a record was appended.
func (s *Simulation) ProcessDay(day int) (rec domain.DayRecord, ok bool) {
	p := s.currentPeriod()
	if p == nil || !p.Settled() || day != s.lastDay+1 || !p.Contains(day) {
		return domain.DayRecord{}, false
	}
	s.lastDay = day
	s.reserve += s.creditFunding(day)

	block, found := BlockOn(s.plan, day)
	if !found {
		return domain.DayRecord{}, false
	}

	required := s.paymentDue(day) + s.surcharge(p, day)
	issued := min(required, s.reserve)
	s.reserve -= issued

	rec = domain.DayRecord{
		Day:           day,
		PeriodID:      p.ID,
		RequiredMoney: required,
		IssuedMoney:   issued,
		IsIdle:        issued < required,
	}
	if !rec.IsIdle {
		c := block.Option.Category
		rec.ConstructionType = &c
	}
	s.pending = append(s.pending, rec)
	return rec, true
}

// creditFunding posts every category whose funding day has arrived and that
// has not been posted yet, minus what was already drawn as an advance.
// Re-selections can move a block's start into the past; such postings are
// caught up on the next processed day.
func (s *Simulation) creditFunding(day int) int {
	total := 0
	for _, f := range s.funding {
		if f.Day > day || s.posted[f.Category] {
			continue
		}
		s.posted[f.Category] = true
		total += max(0, f.Amount-s.advanced(f.Category))
	}
	return total
}

func (s *Simulation) paymentDue(day int) int {
	total := 0
	for _, p := range s.payments {
		if p.Day == day {
			total += p.Amount
		}
	}
	return total
}

// surcharge is the daily share of a risk resolved with SolutionPay. It runs
// for the first risk.Duration days of the period and never totals more than
// the risk cost.
func (s *Simulation) surcharge(p *domain.Period, day int) int {
	if p.Risk == nil || p.Selected == nil || *p.Selected != domain.SolutionPay {
		return 0
	}
	offset := day - p.StartDay
	if offset < 0 || offset >= p.Risk.Duration {
		return 0
	}
	daily := p.Risk.DailySurcharge()
	left := p.Risk.Cost - daily*offset
	return max(0, min(daily, left))
}

// RequestCash moves amount from the planning remainder into the reserve.
// Requests that are not positive or exceed the remainder change nothing.
func (s *Simulation) RequestCash(amount int) bool {
	if amount <= 0 || amount > s.remainder {
		return false
	}
	s.remainder -= amount
	s.reserve += amount
	return true
}

// AdvanceAvailable is the part of a category's funding that has not been
// posted or drawn yet.
func (s *Simulation) AdvanceAvailable(c domain.Category) int {
	if s.posted[c] {
		return 0
	}
	for _, f := range s.funding {
		if f.Category == c {
			return max(0, f.Amount-s.advanced(c))
		}
	}
	return 0
}

// RequestAdvance draws amount of a category's future funding into the
// reserve now. The category's posting shrinks by the same amount.
func (s *Simulation) RequestAdvance(c domain.Category, amount int) bool {
	if amount <= 0 || amount > s.AdvanceAvailable(c) {
		return false
	}
	s.reserve += amount
	s.advances = append(s.advances, domain.Advance{Day: s.lastDay, Category: c, Amount: amount})
	return true
}

func (s *Simulation) advanced(c domain.Category) int {
	total := 0
	for _, a := range s.advances {
		if a.Category == c {
			total += a.Amount
		}
	}
	return total
}
