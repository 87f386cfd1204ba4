package domain

import "slices"

// ConstructionOption is a selectable way of building one category.
type ConstructionOption struct {
	ID       string
	Category Category
	Style    string
	Name     string
	Cost     int
	Duration int // days
}

// Risk is a catalog event that can land on any period. Resolving it with
// SolutionPay costs Cost spread over Duration days; SolutionDelay costs
// Duration extra calendar days instead.
type Risk struct {
	ID              string
	Category        Category
	Styles          []string
	Title           string
	Description     string
	SolutionText    string
	AlternativeText string
	Cost            int
	Duration        int
}

// AppliesTo reports whether the risk can hit the given option. An empty
// style list applies to every style of the risk's category.
func (r *Risk) AppliesTo(opt ConstructionOption) bool {
	if opt.Category != r.Category {
		return false
	}
	if len(r.Styles) == 0 {
		return true
	}
	return slices.Contains(r.Styles, opt.Style)
}

// DailySurcharge is the risk cost amortised over its own duration, rounded up.
func (r *Risk) DailySurcharge() int {
	if r.Duration <= 0 {
		return r.Cost
	}
	return CeilDiv(r.Cost, r.Duration)
}

// CeilDiv returns ceil(a/b) for non-negative a and positive b.
func CeilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
