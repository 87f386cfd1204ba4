package engine

import "github.com/alexanderramin/housebudget/internal/domain"

// Block is the contiguous day range one selected category occupies.
type Block struct {
	Option   domain.ConstructionOption
	StartDay int
	EndDay   int
}

func (b Block) Contains(day int) bool {
	return day >= b.StartDay && day <= b.EndDay
}

// Blocks lays the selected categories out back to back from day 1 in build
// order. Categories without a selection take no days.
func Blocks(plan domain.Plan) []Block {
	selected := plan.Selected()
	out := make([]Block, 0, len(selected))
	cursor := 1
	for _, opt := range selected {
		out = append(out, Block{Option: opt, StartDay: cursor, EndDay: cursor + opt.Duration - 1})
		cursor += opt.Duration
	}
	return out
}

// BlockOn returns the block covering day.
func BlockOn(plan domain.Plan, day int) (Block, bool) {
	for _, b := range Blocks(plan) {
		if b.Contains(day) {
			return b, true
		}
	}
	return Block{}, false
}

// FundingPlan posts each category's full cost on the first day of its block.
func FundingPlan(plan domain.Plan) []domain.FundingPlanItem {
	blocks := Blocks(plan)
	out := make([]domain.FundingPlanItem, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, domain.FundingPlanItem{
			Day:      b.StartDay,
			Category: b.Option.Category,
			Amount:   b.Option.Cost,
		})
	}
	return out
}

// PaymentPlan spreads each category's cost over its days at
// ceil(cost/duration) per day. Once the running total reaches the cost the
// remaining days of the block carry only what is left, so a block never pays
// less than its cost and never more than the rounded share allows.
func PaymentPlan(plan domain.Plan) []domain.PaymentScheduleItem {
	out := make([]domain.PaymentScheduleItem, 0, plan.TotalDuration())
	for _, b := range Blocks(plan) {
		share := domain.CeilDiv(b.Option.Cost, b.Option.Duration)
		left := b.Option.Cost
		for day := b.StartDay; day <= b.EndDay; day++ {
			amount := min(share, left)
			left -= amount
			out = append(out, domain.PaymentScheduleItem{
				Day:      day,
				Category: b.Option.Category,
				Amount:   amount,
			})
		}
	}
	return out
}
