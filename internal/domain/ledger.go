package domain

// FundingPlanItem is a lump sum posted to the reserve on the first day of a
// category's block.
type FundingPlanItem struct {
	Day      int
	Category Category
	Amount   int
}

// PaymentScheduleItem is the base spend a category requires on one day,
// before any risk surcharge.
type PaymentScheduleItem struct {
	Day      int
	Category Category
	Amount   int
}

// DayRecord is the ledger entry for one processed day. ConstructionType is
// nil when the day was idle.
type DayRecord struct {
	Day              int
	PeriodID         int
	ConstructionType *Category
	RequiredMoney    int
	IssuedMoney      int
	IsIdle           bool
}

// FullyPaid reports whether the day's requirement was covered.
func (d DayRecord) FullyPaid() bool {
	return d.IssuedMoney >= d.RequiredMoney
}

// Is reports whether the record was attributed to c.
func (d DayRecord) Is(c Category) bool {
	return d.ConstructionType != nil && *d.ConstructionType == c
}

// CategoryName returns the attributed category or "" for idle days.
func (d DayRecord) CategoryName() string {
	if d.ConstructionType == nil {
		return ""
	}
	return string(*d.ConstructionType)
}

// Advance is an early draw of a category's future funding into the reserve.
type Advance struct {
	Day      int
	Category Category
	Amount   int
}
