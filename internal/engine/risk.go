package engine

import (
	"math/rand/v2"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// RandomSource draws the period risks. Tests inject fixed sequences.
type RandomSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// PCGSource is the production RandomSource. Its state can be marshalled so
// a persisted simulation keeps drawing the same sequence after a reload.
type PCGSource struct {
	pcg *rand.PCG
	rng *rand.Rand
}

func NewPCGSource(seed uint64) *PCGSource {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &PCGSource{pcg: pcg, rng: rand.New(pcg)}
}

func (s *PCGSource) IntN(n int) int {
	return s.rng.IntN(n)
}

func (s *PCGSource) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

func (s *PCGSource) UnmarshalBinary(data []byte) error {
	return s.pcg.UnmarshalBinary(data)
}

// RiskAssigner attaches risks from a fixed pool to periods on demand.
type RiskAssigner struct {
	pool []domain.Risk
	rng  RandomSource
}

func NewRiskAssigner(pool []domain.Risk, rng RandomSource) *RiskAssigner {
	return &RiskAssigner{pool: append([]domain.Risk(nil), pool...), rng: rng}
}

// Assign draws a risk uniformly from the whole pool for the period with the
// given ID. Periods that already carry a risk are left untouched. It reports
// whether a risk was attached.
func (a *RiskAssigner) Assign(periods []domain.Period, periodID int) bool {
	if a == nil || len(a.pool) == 0 {
		return false
	}
	idx := periodID - 1
	if idx < 0 || idx >= len(periods) {
		return false
	}
	p := &periods[idx]
	if p.Risk != nil || p.Sealed {
		return false
	}
	r := a.pool[a.rng.IntN(len(a.pool))]
	r.Styles = append([]string(nil), r.Styles...)
	p.Risk = &r
	p.Selected = nil
	p.Acknowledged = false
	return true
}

// Source exposes the random source for snapshotting.
func (a *RiskAssigner) Source() RandomSource {
	if a == nil {
		return nil
	}
	return a.rng
}
