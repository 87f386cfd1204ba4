package engine

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyPlan(t *testing.T) {
	_, err := New(domain.NewPlan(50000, 90), NewRiskAssigner(stormPool, testutil.NewSequenceSource()))
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestNew_RejectsInvalidPlan(t *testing.T) {
	plan := testutil.NewTestPlan(t, testutil.WithBudget(0))
	_, err := New(plan, NewRiskAssigner(stormPool, testutil.NewSequenceSource()))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestNew_InitialState(t *testing.T) {
	plan := testutil.NewTestPlan(t, testutil.WithBudget(60000))
	s := newSim(t, plan, stormPool)

	assert.Equal(t, 50000, s.TotalCost())
	assert.Equal(t, 90, s.TotalDuration())
	assert.Equal(t, 10000, s.RemainingBudget())
	assert.Equal(t, 0, s.RemainingDuration())
	assert.Equal(t, 10000, s.PlanningRemainder())
	assert.Zero(t, s.Reserve())
	assert.Zero(t, s.LastDay())
	assert.Empty(t, s.History())

	periods := s.Periods()
	require.Len(t, periods, PeriodCount)
	require.NotNil(t, periods[0].Risk, "the first period gets its risk at start")
	for _, p := range periods[1:] {
		assert.Nil(t, p.Risk, "later risks are drawn lazily")
	}
}

func TestNew_OwnsACopyOfThePlan(t *testing.T) {
	plan := testutil.NewTestPlan(t)
	s := newSim(t, plan, stormPool)

	plan.Select(testutil.CatalogOption(t, "pile"))
	opt, _ := s.Plan().Option(domain.CategoryFoundation)
	assert.Equal(t, "slab", opt.ID)
}

// Reference plan, every risk taken as a delay: funding matches spend exactly.
func TestScenario_ExactFundingNeverIdles(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	playAll(t, s, "")

	assert.True(t, s.Done())
	assert.Zero(t, s.Reserve())
	history := s.History()
	require.Len(t, history, 90)
	for _, r := range history {
		assert.False(t, r.IsIdle, "day %d", r.Day)
		assert.NotNil(t, r.ConstructionType, "day %d", r.Day)
	}
}

func TestScenario_AlternativeAddsNoSurcharge(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	require.True(t, s.ResolveRisk(1, domain.SolutionDelay))

	records := s.ProcessPeriod()
	require.Len(t, records, 18)

	due := map[int]int{}
	for _, p := range s.PaymentPlan() {
		due[p.Day] += p.Amount
	}
	for _, r := range records {
		assert.Equal(t, due[r.Day], r.RequiredMoney, "day %d", r.Day)
	}
}

func TestScenario_CeilPaymentsDrainReserveExactly(t *testing.T) {
	s := newSim(t, testutil.NewSinglePlan(testutil.CatalogOption(t, "strip")), stormPool)

	playAll(t, s, "")

	history := s.History()
	require.Len(t, history, 9)
	for _, r := range history[:8] {
		assert.Equal(t, 478, r.RequiredMoney, "day %d", r.Day)
		assert.Equal(t, 478, r.IssuedMoney, "day %d", r.Day)
	}
	assert.Equal(t, 476, history[8].IssuedMoney)
	for _, r := range history {
		assert.False(t, r.IsIdle)
	}
	assert.Zero(t, s.Reserve())
}

func TestScenario_CashOverRemainderIsRejected(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t, testutil.WithBudget(52000)), stormPool)

	assert.False(t, s.RequestCash(2001))
	assert.False(t, s.RequestCash(0))
	assert.False(t, s.RequestCash(-5))
	assert.Zero(t, s.Reserve())
	assert.Equal(t, 2000, s.PlanningRemainder())

	require.True(t, s.RequestCash(1500))
	assert.Equal(t, 1500, s.Reserve())
	assert.Equal(t, 500, s.PlanningRemainder())
}

func TestProcessDay_SolutionSurchargeCausesIdleDays(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	require.True(t, s.ResolveRisk(1, domain.SolutionPay))

	records := s.ProcessPeriod()
	require.Len(t, records, 18)

	for _, r := range records[:5] {
		assert.Equal(t, 1100, r.RequiredMoney, "day %d carries the 500 surcharge", r.Day)
	}
	assert.Equal(t, 600, records[5].RequiredMoney, "surcharge stops after the risk duration")

	assert.Equal(t, 500, records[10].IssuedMoney)
	idle := 0
	for _, r := range records {
		if r.IsIdle {
			idle++
			assert.Nil(t, r.ConstructionType, "idle days are attributed to no category")
		}
	}
	assert.Equal(t, 5, idle)
	assert.False(t, records[15].IsIdle, "walls funding arrives on day 16")
	assert.Equal(t, 13200, s.Reserve())
}

func TestProcessDay_CashCoversSurcharge(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t, testutil.WithBudget(52500)), stormPool)
	require.True(t, s.RequestCash(2500))
	require.True(t, s.ResolveRisk(1, domain.SolutionPay))

	for _, r := range s.ProcessPeriod() {
		assert.False(t, r.IsIdle, "day %d", r.Day)
	}
}

func TestProcessDay_StrictOrder(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	settle(s, "")

	_, ok := s.ProcessDay(2)
	assert.False(t, ok, "day 1 must come first")
	assert.Zero(t, s.LastDay())

	_, ok = s.ProcessDay(1)
	require.True(t, ok)
	_, ok = s.ProcessDay(1)
	assert.False(t, ok, "a day is processed once")

	for d := 2; d <= 18; d++ {
		_, ok = s.ProcessDay(d)
		require.True(t, ok)
	}
	_, ok = s.ProcessDay(19)
	assert.False(t, ok, "day 19 belongs to the next period")
	assert.Equal(t, 18, s.LastDay())
}

func TestProcessDay_WaitsForSettledRisk(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	_, ok := s.ProcessDay(1)
	assert.False(t, ok)
	assert.Empty(t, s.ProcessPeriod())
	assert.Zero(t, s.LastDay(), "no day runs before the decision")

	require.True(t, s.ResolveRisk(1, domain.SolutionPay))
	records := s.ProcessPeriod()
	require.Len(t, records, 18)

	scheduled, required := 0, 0
	for _, p := range s.PaymentPlan() {
		if p.Day <= 18 {
			scheduled += p.Amount
		}
	}
	for _, r := range records {
		required += r.RequiredMoney
	}
	assert.Equal(t, scheduled+2500, required, "the paid risk is charged in full")
	assert.False(t, s.ResolveRisk(1, domain.SolutionDelay))
}

func TestSelectOption_ShorterPlanShrinksPeriods(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	_, ok := s.SelectOption(testutil.CatalogOption(t, "metal"))
	require.True(t, ok)

	periods := s.Periods()
	assert.Equal(t, 17, periods[0].EndDay)
	assert.Equal(t, 86, periods[4].EndDay)

	playAll(t, s, "")

	sealed := s.SealedHistory()
	require.Len(t, sealed, PeriodCount)
	assert.Len(t, sealed[4], 18)
	assert.Len(t, s.History(), 86)
	assert.Equal(t, 86, s.LastDay())
	assert.Zero(t, s.Reserve())
}

func TestAdvancePeriod_Guards(t *testing.T) {
	pool := []domain.Risk{testutil.NewTestRisk("groundwater", domain.CategoryFoundation, 1800, 4, "strip", "slab")}
	s := newSim(t, testutil.NewTestPlan(t), pool)

	assert.ErrorIs(t, s.AdvancePeriod(), ErrPeriodIncomplete)

	assert.Empty(t, s.ProcessPeriod(), "days wait for the decision")
	assert.False(t, s.Protected(1))
	assert.False(t, s.AcknowledgeRisk(1), "an exposed risk needs a decision")
	assert.ErrorIs(t, s.AdvancePeriod(), ErrPeriodIncomplete)

	require.True(t, s.ResolveRisk(1, domain.SolutionDelay))
	s.ProcessDay(1)
	assert.ErrorIs(t, s.AdvancePeriod(), ErrPeriodIncomplete)
	assert.Len(t, s.PendingRecords(), 1, "a refused seal keeps the records pending")

	s.ProcessPeriod()
	require.NoError(t, s.AdvancePeriod())
	assert.False(t, s.ResolveRisk(1, domain.SolutionPay), "sealed periods are final")

	cur, ok := s.CurrentPeriod()
	require.True(t, ok)
	assert.Equal(t, 2, cur.ID)
	require.NotNil(t, cur.Risk, "the next risk is drawn on transition")
	assert.True(t, s.Protected(2), "foundation is finished before period 2")
	assert.Empty(t, s.PendingRecords())
	assert.Len(t, s.SealedHistory()[0], 18)
}

func TestAdvancePeriod_AfterCompletion(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	playAll(t, s, "")

	assert.ErrorIs(t, s.AdvancePeriod(), ErrSimulationComplete)
	_, ok := s.CurrentPeriod()
	assert.False(t, ok)
	assert.Nil(t, s.ProcessPeriod())
	for _, p := range s.Periods() {
		assert.Equal(t, domain.PeriodSealed, p.State())
	}
}

func TestAdvancePeriod_EmptyLeadingPeriods(t *testing.T) {
	plan := testutil.NewSinglePlan(domain.ConstructionOption{
		ID: "tiny", Category: domain.CategoryLandscaping, Style: "lawn", Cost: 300, Duration: 3,
	})
	s := newSim(t, plan, stormPool)
	assert.ErrorIs(t, s.AdvancePeriod(), ErrRiskUnsettled, "an empty period still needs its risk settled")

	for i := 0; i < 4; i++ {
		settle(s, "")
		assert.Empty(t, s.ProcessPeriod())
		require.NoError(t, s.AdvancePeriod())
	}
	settle(s, "")
	assert.Len(t, s.ProcessPeriod(), 3)
	require.NoError(t, s.AdvancePeriod())
	assert.True(t, s.Done())
}

func TestResolveRisk_Idempotent(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	require.True(t, s.ResolveRisk(1, domain.SolutionPay))
	assert.False(t, s.ResolveRisk(1, domain.SolutionPay))
	assert.False(t, s.ResolveRisk(1, domain.SolutionDelay))

	p, _ := s.CurrentPeriod()
	assert.Equal(t, domain.SolutionPay, *p.Selected)
}

func TestResolveRisk_NoOps(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	assert.False(t, s.ResolveRisk(2, domain.SolutionPay), "period 2 has no risk yet")
	assert.False(t, s.ResolveRisk(9, domain.SolutionPay))
	assert.False(t, s.ResolveRisk(1, domain.Solution("bribe")))
	assert.Nil(t, s.Periods()[1].Selected)
}

func TestAcknowledgeRisk_ProtectedByStyle(t *testing.T) {
	pool := []domain.Risk{testutil.NewTestRisk("groundwater", domain.CategoryFoundation, 1800, 4, "strip", "slab")}
	plan := testutil.NewTestPlan(t, testutil.WithOption(testutil.CatalogOption(t, "pile")))
	s := newSim(t, plan, pool)

	assert.True(t, s.Protected(1), "piles are not affected by groundwater")
	require.True(t, s.AcknowledgeRisk(1))
	assert.False(t, s.AcknowledgeRisk(1))
	assert.False(t, s.ResolveRisk(1, domain.SolutionPay), "acknowledged risks are settled")

	p, _ := s.CurrentPeriod()
	assert.Equal(t, domain.PeriodResolved, p.State())
	assert.False(t, p.IsResolved())
}

func TestSelectOption_RecordsChangeAndRederives(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)
	settle(s, "")
	s.ProcessPeriod()
	before := s.History()

	change, ok := s.SelectOption(testutil.CatalogOption(t, "metal"))
	require.True(t, ok)
	assert.Equal(t, domain.ConstructionChange{
		Day: 18, Category: domain.CategoryRoof, FromOptionID: "ceramic", ToOptionID: "metal",
		CostDelta: -3000, DurationDelta: -4,
	}, change)

	assert.Equal(t, before, s.History(), "processed days are never rewritten")
	periods := s.Periods()
	assert.Equal(t, 18, periods[0].EndDay, "processed days keep their period")
	assert.Equal(t, 19, periods[1].StartDay)
	assert.Equal(t, 86, periods[4].EndDay)

	assert.Equal(t, 47000, s.TotalCost())
	assert.Equal(t, 0, s.PlanningRemainder(), "the cash pool is fixed at start")
	assert.Len(t, s.PaymentPlan(), 86)
	for _, f := range s.FundingPlan() {
		if f.Category == domain.CategoryRoof {
			assert.Equal(t, 7000, f.Amount)
			assert.Equal(t, 51, f.Day)
		}
	}
	assert.Len(t, s.Changes(), 1)
}

func TestSelectOption_NoOps(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	_, ok := s.SelectOption(testutil.CatalogOption(t, "slab"))
	assert.False(t, ok, "same option")

	_, ok = s.SelectOption(domain.ConstructionOption{ID: "free", Category: domain.CategoryRoof, Cost: 0, Duration: 3})
	assert.False(t, ok)

	_, ok = s.SelectOption(domain.ConstructionOption{ID: "pool", Category: "pool", Cost: 10, Duration: 3})
	assert.False(t, ok)
	assert.Empty(t, s.Changes())
}

func TestSelectOption_FillsEmptySlot(t *testing.T) {
	plan := testutil.NewTestPlan(t, testutil.WithoutCategory(domain.CategoryLandscaping))
	s := newSim(t, plan, stormPool)

	change, ok := s.SelectOption(testutil.CatalogOption(t, "lawn"))
	require.True(t, ok)
	assert.Empty(t, change.FromOptionID)
	assert.Equal(t, 2000, change.CostDelta)
	assert.Equal(t, 5, change.DurationDelta)

	playAll(t, s, domain.SolutionDelay)

	assert.True(t, s.Done())
	assert.Equal(t, 81, s.LastDay())
	assert.Equal(t, 81, s.Periods()[PeriodCount-1].EndDay)
	assert.Len(t, s.History(), 81)
	assert.True(t, CategoryComplete(s.History(), s.Plan(), domain.CategoryLandscaping))
	assert.Zero(t, s.Reserve(), "the new category's funding is posted and spent")
}

func TestSelectOption_MidRunKeepsSealedPeriods(t *testing.T) {
	plan := testutil.NewTestPlan(t, testutil.WithoutCategory(domain.CategoryLandscaping))
	s := newSim(t, plan, stormPool)
	settle(s, domain.SolutionDelay)
	s.ProcessPeriod()
	require.NoError(t, s.AdvancePeriod())

	_, ok := s.SelectOption(testutil.CatalogOption(t, "lawn"))
	require.True(t, ok)

	periods := s.Periods()
	assert.Equal(t, 1, periods[0].StartDay)
	assert.Equal(t, 15, periods[0].EndDay, "sealed ranges never move")
	assert.Equal(t, 16, periods[1].StartDay)
	assert.Equal(t, 81, periods[4].EndDay)

	playAll(t, s, domain.SolutionDelay)
	assert.Equal(t, 81, s.LastDay())
	assert.True(t, CategoryComplete(s.History(), s.Plan(), domain.CategoryLandscaping))
	for _, r := range s.History() {
		assert.False(t, r.IsIdle, "day %d", r.Day)
	}
}

func TestSelectOption_RefusedWhenItCannotApply(t *testing.T) {
	s := newSim(t, testutil.NewSinglePlan(testutil.CatalogOption(t, "strip")), stormPool)
	for !s.Done() {
		settle(s, "")
		s.ProcessPeriod()
		if cur, _ := s.CurrentPeriod(); cur.ID == PeriodCount {
			break
		}
		require.NoError(t, s.AdvancePeriod())
	}
	require.Equal(t, 9, s.LastDay())

	quick := domain.ConstructionOption{ID: "quick", Category: domain.CategoryFoundation, Style: "strip", Cost: 1000, Duration: 3}
	_, ok := s.SelectOption(quick)
	assert.False(t, ok, "the plan cannot end before a day that already ran")

	require.NoError(t, s.AdvancePeriod())
	_, ok = s.SelectOption(testutil.CatalogOption(t, "slab"))
	assert.False(t, ok, "finished simulations are final")
	assert.Empty(t, s.Changes())
}

func TestRequestAdvance_DrawsFutureFunding(t *testing.T) {
	s := newSim(t, testutil.NewTestPlan(t), stormPool)

	assert.Equal(t, 15000, s.AdvanceAvailable(domain.CategoryWalls))
	require.True(t, s.RequestAdvance(domain.CategoryWalls, 5000))
	assert.Equal(t, 5000, s.Reserve())
	assert.Equal(t, 10000, s.AdvanceAvailable(domain.CategoryWalls))
	assert.False(t, s.RequestAdvance(domain.CategoryWalls, 10001))
	assert.False(t, s.RequestAdvance(domain.CategoryWalls, 0))

	settle(s, "")
	for d := 1; d <= 16; d++ {
		_, ok := s.ProcessDay(d)
		require.True(t, ok)
	}
	assert.Equal(t, 14400, s.Reserve(), "walls post only the part not drawn early")
	assert.Zero(t, s.AdvanceAvailable(domain.CategoryWalls))
	assert.Zero(t, s.AdvanceAvailable(domain.CategoryFoundation))
	assert.Len(t, s.Advances(), 1)
}

func TestRequestAdvance_UnselectedCategory(t *testing.T) {
	plan := testutil.NewTestPlan(t, testutil.WithoutCategory(domain.CategoryRoof))
	s := newSim(t, plan, stormPool)

	assert.Zero(t, s.AdvanceAvailable(domain.CategoryRoof))
	assert.False(t, s.RequestAdvance(domain.CategoryRoof, 1))
}

// TestSimulation_LedgerInvariants plays random plans with random choices,
// cash requests, advances and re-selections and checks the ledger after
// every day.
func TestSimulation_LedgerInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	cat := catalog.MustLoad()
	choices := []domain.Solution{domain.SolutionPay, domain.SolutionDelay, ""}

	for trial := 0; trial < 60; trial++ {
		plan := domain.NewPlan(rng.Intn(60000)+20000, rng.Intn(60)+60)
		for _, c := range domain.Categories {
			if rng.Intn(5) == 0 {
				continue
			}
			opts := cat.Options(c)
			plan.Select(opts[rng.Intn(len(opts))])
		}
		if plan.TotalDuration() == 0 {
			continue
		}

		s, err := New(plan, NewRiskAssigner(cat.Risks(), NewPCGSource(uint64(trial))))
		require.NoError(t, err)

		for !s.Done() {
			settle(s, choices[rng.Intn(len(choices))])
			if rng.Intn(3) == 0 {
				s.RequestCash(rng.Intn(3000))
			}
			if rng.Intn(4) == 0 {
				c := domain.Categories[rng.Intn(len(domain.Categories))]
				s.RequestAdvance(c, rng.Intn(2000)+1)
			}
			if rng.Intn(6) == 0 {
				opts := cat.AllOptions()
				s.SelectOption(opts[rng.Intn(len(opts))])
			}

			cur, _ := s.CurrentPeriod()
			for d := s.LastDay() + 1; d <= cur.EndDay; d++ {
				rec, ok := s.ProcessDay(d)
				require.GreaterOrEqual(t, s.Reserve(), 0, "trial %d day %d", trial, d)
				if !ok {
					continue
				}
				assert.GreaterOrEqual(t, rec.IssuedMoney, 0)
				assert.LessOrEqual(t, rec.IssuedMoney, rec.RequiredMoney, "trial %d day %d", trial, d)
				assert.Equal(t, rec.IssuedMoney < rec.RequiredMoney, rec.IsIdle, "trial %d day %d", trial, d)
				if rec.RequiredMoney == 0 {
					assert.False(t, rec.IsIdle)
				}
				assert.Equal(t, rec.IsIdle, rec.ConstructionType == nil)
			}
			require.NoError(t, s.AdvancePeriod(), "trial %d", trial)
		}

		assert.Equal(t, s.TotalDuration(), s.LastDay(), "trial %d", trial)
		next := 1
		for _, p := range s.Periods() {
			if p.Risk == nil {
				assert.Nil(t, p.Selected)
			}
			assert.Equal(t, next, p.StartDay, "trial %d period %d", trial, p.ID)
			next = p.EndDay + 1
		}
		assert.Equal(t, s.TotalDuration()+1, next, "trial %d", trial)
	}
}
