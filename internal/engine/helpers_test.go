package engine

import (
	"testing"

	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newSim(t *testing.T, plan domain.Plan, pool []domain.Risk, draws ...int) *Simulation {
	t.Helper()
	s, err := New(plan, NewRiskAssigner(pool, testutil.NewSequenceSource(draws...)))
	require.NoError(t, err)
	return s
}

// settle resolves the current period's risk with choice, or acknowledges it
// when it is protected and choice is empty.
func settle(s *Simulation, choice domain.Solution) {
	p, ok := s.CurrentPeriod()
	if !ok || p.Settled() {
		return
	}
	if choice == "" && s.Protected(p.ID) {
		s.AcknowledgeRisk(p.ID)
		return
	}
	if choice == "" {
		choice = domain.SolutionDelay
	}
	s.ResolveRisk(p.ID, choice)
}

// playAll settles every risk before its days run, then seals the period.
func playAll(t *testing.T, s *Simulation, choice domain.Solution) {
	t.Helper()
	for !s.Done() {
		settle(s, choice)
		s.ProcessPeriod()
		require.NoError(t, s.AdvancePeriod())
	}
}

var stormPool = []domain.Risk{
	testutil.NewTestRisk("storm", domain.CategoryRoof, 2500, 5),
}
