package engine

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// PeriodCount is the number of periods every simulation is split into.
const PeriodCount = 5

var (
	// ErrEmptyPlan is returned when the plan has no planned days, so no
	// periods can be generated and the simulation cannot start.
	ErrEmptyPlan = errors.New("plan has no planned duration")
	// ErrInvalidPlan wraps plan validation failures.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrPeriodIncomplete is returned when sealing a period whose days have
	// not all been processed.
	ErrPeriodIncomplete = errors.New("period has unprocessed days")
	// ErrRiskUnsettled is returned when sealing a period whose risk still
	// awaits a decision.
	ErrRiskUnsettled = errors.New("period risk is not resolved")
	// ErrSimulationComplete is returned once every period is sealed.
	ErrSimulationComplete = errors.New("simulation is complete")
)

// PartitionPeriods splits total days into n contiguous periods starting at
// day 1. Every period is floor(total/n) days long except the last, which
// also absorbs total mod n.
func PartitionPeriods(total, n int) ([]domain.Period, error) {
	if total <= 0 {
		return nil, ErrEmptyPlan
	}
	if n <= 0 {
		return nil, fmt.Errorf("period count must be positive, got %d", n)
	}

	periods := make([]domain.Period, n)
	for i := range periods {
		periods[i].ID = i + 1
	}
	spreadDays(periods, 1, total)
	return periods, nil
}

// spreadDays lays periods back to back over the days from..to. Each gets
// floor(days/len) days and the last one also takes the remainder, so leading
// periods may be empty when there are fewer days than periods.
func spreadDays(periods []domain.Period, from, to int) {
	n := len(periods)
	if n == 0 {
		return
	}
	days := max(0, to-from+1)
	size := days / n
	start := from
	for i := range periods {
		length := size
		if i == n-1 {
			length = days - size*(n-1)
		}
		periods[i].StartDay = start
		periods[i].EndDay = start + length - 1
		start += length
	}
}
