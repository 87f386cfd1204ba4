package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/engine"
	"github.com/alexanderramin/housebudget/internal/repository"
	"github.com/alexanderramin/housebudget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type simEnv struct {
	db      *sql.DB
	svc     SimulationService
	sims    *repository.SQLiteSimulationRepo
	days    *repository.SQLiteDayRecordRepo
	results *repository.SQLiteResultRepo
	events  *recordingObserver
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func newSimEnv(t *testing.T) *simEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &simEnv{
		db:      database,
		sims:    repository.NewSQLiteSimulationRepo(database),
		days:    repository.NewSQLiteDayRecordRepo(database),
		results: repository.NewSQLiteResultRepo(database),
		events:  &recordingObserver{},
	}
	env.svc = NewSimulationService(
		env.sims,
		env.days,
		repository.NewSQLiteChangeRepo(database),
		testutil.NewTestUoW(database),
		testutil.NewStormCatalog(t),
		1,
		env.events,
	)
	return env
}

func (e *simEnv) create(t *testing.T, opts ...testutil.PlanOption) *domain.SimulationRecord {
	t.Helper()
	req := contract.NewCreateSimulationRequest(testutil.NewTestPlan(t, opts...))
	req.Name = "test build"
	rec, err := e.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return rec
}

// playThrough settles every period (acknowledging protected risks) and runs
// it to the end.
func playThrough(t *testing.T, svc SimulationService, id string, choice domain.Solution) *contract.SimulationStatusView {
	t.Helper()
	ctx := context.Background()
	for {
		status, err := svc.Status(ctx, id)
		require.NoError(t, err)
		if status.Current == nil {
			return status
		}
		if status.Current.NeedsDecision() {
			var res *contract.ActionResult
			if status.Current.Protected {
				res, err = svc.AcknowledgeRisk(ctx, id)
			} else {
				res, err = svc.ResolveRisk(ctx, id, choice)
			}
			require.NoError(t, err)
			require.True(t, res.Applied, res.Reason)
		}
		res, err := svc.RunPeriod(ctx, id)
		require.NoError(t, err)
		require.True(t, res.Applied, res.Reason)
	}
}

func TestCreate_PersistsRunningSimulation(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()

	rec := env.create(t)
	assert.Equal(t, domain.SimulationRunning, rec.Status)
	assert.Equal(t, uint64(1), rec.Seed)
	assert.Equal(t, "test build", rec.Name)

	stored, err := env.sims.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Snapshot)

	status, err := env.svc.Status(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000, status.TotalCost)
	assert.Equal(t, 90, status.TotalDuration)
	assert.Zero(t, status.Reserve)
	assert.Zero(t, status.PlanningRemainder)
	require.Len(t, status.Periods, engine.PeriodCount)
	require.NotNil(t, status.Current)
	assert.Equal(t, 1, status.Current.ID)
	require.NotNil(t, status.Current.Risk)
	assert.Equal(t, "storm", status.Current.Risk.ID)
	assert.True(t, status.Current.Protected, "the roof is not built in days 1-18")
	assert.True(t, status.Current.NeedsDecision())
	assert.Nil(t, status.Periods[1].Risk, "later risks are drawn lazily")
	assert.Empty(t, status.Warnings)

	assert.Equal(t, "create-simulation", env.events.last().Name)
	assert.True(t, env.events.last().Success)
}

func TestCreate_DefaultsNameAndSeed(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewSimulationService(
		repository.NewSQLiteSimulationRepo(database),
		repository.NewSQLiteDayRecordRepo(database),
		repository.NewSQLiteChangeRepo(database),
		testutil.NewTestUoW(database),
		testutil.NewStormCatalog(t),
		0,
	)

	rec, err := svc.Create(context.Background(), contract.NewCreateSimulationRequest(testutil.NewTestPlan(t)))
	require.NoError(t, err)
	assert.Contains(t, rec.Name, "build ")
	assert.NotZero(t, rec.Seed)
}

func TestCreate_RejectsEmptyPlan(t *testing.T) {
	env := newSimEnv(t)

	_, err := env.svc.Create(context.Background(), contract.NewCreateSimulationRequest(domain.NewPlan(50000, 90)))
	require.ErrorIs(t, err, engine.ErrEmptyPlan)

	all, err := env.sims.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, env.events.last().Success)
}

func TestProcessDay_WaitsForSettledRisk(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	res, err := env.svc.ProcessDay(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "needs a decision")
	assert.Zero(t, res.Status.LastDay)

	res, err = env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)

	res, err = env.svc.ProcessDay(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.Len(t, res.Records, 1)
	day := res.Records[0]
	assert.Equal(t, 1, day.Day)
	assert.Equal(t, 600, day.RequiredMoney)
	assert.Equal(t, 600, day.IssuedMoney)
	assert.True(t, day.Is(domain.CategoryFoundation))
	assert.Equal(t, 8400, res.Status.Reserve)
	assert.Equal(t, 1, res.Status.LastDay)
	assert.Equal(t, 1, res.Status.Current.DaysProcessed)

	event := env.events.last()
	assert.Equal(t, "process-day", event.Name)
	assert.Equal(t, true, event.Fields["applied"])
}

func TestResolveRisk_OnlyOnce(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	res, err := env.svc.ResolveRisk(ctx, rec.ID, domain.SolutionDelay)
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.NotNil(t, res.Status.Current.Selected)
	assert.Equal(t, domain.SolutionDelay, *res.Status.Current.Selected)

	res, err = env.svc.ResolveRisk(ctx, rec.ID, domain.SolutionPay)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "already resolved")
	assert.Equal(t, domain.SolutionDelay, *res.Status.Current.Selected)

	res, err = env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "already settled")
}

func TestAcknowledgeRisk_RefusedWhenExposed(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	for i := 0; i < 2; i++ {
		_, err := env.svc.AcknowledgeRisk(ctx, rec.ID)
		require.NoError(t, err)
		res, err := env.svc.RunPeriod(ctx, rec.ID)
		require.NoError(t, err)
		require.True(t, res.Applied, res.Reason)
	}

	res, err := env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "choose solution or alternative")
	assert.Equal(t, 3, res.Status.Current.ID)
	assert.False(t, res.Status.Current.Protected)
}

func TestRunPeriod_SealsAndPersistsDays(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	_, err := env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	res, err := env.svc.RunPeriod(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)

	assert.Len(t, res.Records, 18)
	assert.Equal(t, 13200, res.Status.Reserve)
	assert.Equal(t, 2, res.Status.Current.ID)
	assert.Equal(t, domain.PeriodSealed, res.Status.Periods[0].State)
	require.NotNil(t, res.Status.Current.Risk, "the next risk is drawn on advance")

	stored, err := env.days.ListBySimulation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 18)
}

func TestAdvancePeriod_RefusesUnplayedDays(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	res, err := env.svc.AdvancePeriod(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	res, err = env.svc.AdvancePeriod(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "ends on day 18")
	assert.Equal(t, 1, res.Status.Current.ID)
}

func TestProcessDay_StopsAtPeriodEnd(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	_, err := env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)
	for i := 0; i < 18; i++ {
		res, err := env.svc.ProcessDay(ctx, rec.ID)
		require.NoError(t, err)
		require.True(t, res.Applied)
	}

	res, err := env.svc.ProcessDay(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "advance")

	history, err := env.svc.History(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, history, 18, "pending records are part of the history")

	res, err = env.svc.AdvancePeriod(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)
	stored, err := env.days.ListBySimulation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 18)
}

func TestPlayThrough_CompletesAndStoresResult(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	final := playThrough(t, env.svc, rec.ID, domain.SolutionDelay)

	assert.Equal(t, domain.SimulationCompleted, final.Status)
	assert.True(t, final.Done())
	assert.Zero(t, final.Reserve)
	assert.Equal(t, 90, final.LastDay)
	assert.Equal(t, 10, final.Forecast.ExtraDays)
	assert.Equal(t, 100, final.Forecast.ProjectedDuration)
	assert.Equal(t, 50000, final.Forecast.ProjectedCost)
	assert.Zero(t, final.Forecast.IdleDays)
	assert.True(t, final.Forecast.Late)
	assert.Equal(t, domain.WallsSecondFloor, final.WallsStage)
	for _, p := range final.Progress {
		assert.True(t, p.Complete, "%s", p.Category)
	}

	result, err := env.results.GetBySimulation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.ActualDuration)
	assert.Equal(t, 50000, result.ActualCost)
	assert.Equal(t, "test build", result.Name)

	history, err := env.svc.History(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, history, 90)

	_, err = env.svc.ProcessDay(ctx, rec.ID)
	assert.ErrorIs(t, err, engine.ErrSimulationComplete)

	running, err := env.svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, running)
	all, err := env.svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRequestCash_BoundedByRemainder(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t, testutil.WithBudget(55000))

	res, err := env.svc.RequestCash(ctx, rec.ID, 6000)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "5000")
	assert.Zero(t, res.Status.Reserve)
	assert.Equal(t, 5000, res.Status.PlanningRemainder)

	res, err = env.svc.RequestCash(ctx, rec.ID, 1200)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 1200, res.Status.Reserve)
	assert.Equal(t, 3800, res.Status.PlanningRemainder)
}

func TestRequestAdvance_DrawsFutureFunding(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	res, err := env.svc.RequestAdvance(ctx, rec.ID, domain.CategoryWalls, 5000)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 5000, res.Status.Reserve)
	assert.Equal(t, 10000, res.Status.Progress[1].Advance)

	res, err = env.svc.RequestAdvance(ctx, rec.ID, domain.CategoryWalls, 10001)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "10000")
}

func TestSelectOption_RecordsChange(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	res, err := env.svc.SelectOption(ctx, rec.ID, "tile")
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.NotNil(t, res.Change)
	assert.Equal(t, domain.ConstructionChange{
		Day: 0, Category: domain.CategoryFloor,
		FromOptionID: "parquet", ToOptionID: "tile",
		CostDelta: -1000, DurationDelta: 2,
	}, *res.Change)
	assert.Equal(t, 92, res.Status.TotalDuration)
	assert.Contains(t, res.Status.Warnings, "plan exceeds the deadline by 2 days")

	changes, err := env.svc.Changes(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "tile", changes[0].ToOptionID)

	res, err = env.svc.SelectOption(ctx, rec.ID, "tile")
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = env.svc.SelectOption(ctx, rec.ID, "parqet")
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), "did you mean parquet")
}

func TestGet_ResolvesPrefixes(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	got, err := env.svc.Get(ctx, rec.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	require.NoError(t, env.sims.Create(ctx, testutil.NewTestSimulationRecord(testutil.WithSimulationID("abc-1"))))
	require.NoError(t, env.sims.Create(ctx, testutil.NewTestSimulationRecord(testutil.WithSimulationID("abc-2"))))

	_, err = env.svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	got, err = env.svc.Get(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got.ID)

	_, err = env.svc.Get(ctx, "zzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.svc.Get(ctx, "  ")
	assert.Error(t, err)
}

func TestDelete_RemovesSimulationKeepsResult(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)
	playThrough(t, env.svc, rec.ID, domain.SolutionDelay)

	require.NoError(t, env.svc.Delete(ctx, rec.DisplayID()))

	_, err := env.svc.Status(ctx, rec.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	days, err := env.days.ListBySimulation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = env.results.GetBySimulation(ctx, rec.ID)
	assert.NoError(t, err)
}

func TestProcessDay_ConcurrentCallsAreSerialised(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)
	_, err := env.svc.AcknowledgeRisk(ctx, rec.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.svc.ProcessDay(ctx, rec.ID)
			assert.NoError(t, err)
			assert.True(t, res.Applied)
		}()
	}
	wg.Wait()

	status, err := env.svc.Status(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, status.LastDay)
	assert.Equal(t, 9000-6000, status.Reserve)
	assert.Zero(t, env.svc.(*simulationService).locks.size())
}

// settleCurrent acknowledges or resolves the current period's risk.
func settleCurrent(t *testing.T, svc SimulationService, id string, choice domain.Solution) {
	t.Helper()
	ctx := context.Background()
	status, err := svc.Status(ctx, id)
	require.NoError(t, err)
	if status.Current == nil || !status.Current.NeedsDecision() {
		return
	}
	var res *contract.ActionResult
	if status.Current.Protected {
		res, err = svc.AcknowledgeRisk(ctx, id)
	} else {
		res, err = svc.ResolveRisk(ctx, id, choice)
	}
	require.NoError(t, err)
	require.True(t, res.Applied, res.Reason)
}

func TestPeriodHistory_SealedCurrentAndFuture(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t)

	settleCurrent(t, env.svc, rec.ID, domain.SolutionDelay)
	res, err := env.svc.RunPeriod(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Reason)

	settleCurrent(t, env.svc, rec.ID, domain.SolutionDelay)
	res, err = env.svc.ProcessDay(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Reason)

	sealed, err := env.svc.PeriodHistory(ctx, rec.ID, 1)
	require.NoError(t, err)
	require.Len(t, sealed, 18)
	for _, r := range sealed {
		assert.Equal(t, 1, r.PeriodID)
	}

	current, err := env.svc.PeriodHistory(ctx, rec.ID, 2)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, 19, current[0].Day)

	future, err := env.svc.PeriodHistory(ctx, rec.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, future)

	_, err = env.svc.PeriodHistory(ctx, rec.ID, 6)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
	_, err = env.svc.PeriodHistory(ctx, rec.ID, 0)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
	_, err = env.svc.PeriodHistory(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSelectOption_RefusesEndingBeforePlayedDays(t *testing.T) {
	env := newSimEnv(t)
	ctx := context.Background()
	rec := env.create(t,
		testutil.WithoutCategory(domain.CategoryWalls),
		testutil.WithoutCategory(domain.CategoryFloor),
		testutil.WithoutCategory(domain.CategoryRoof),
		testutil.WithoutCategory(domain.CategoryOpenings),
		testutil.WithoutCategory(domain.CategoryLandscaping),
	)

	for i := 0; i < 4; i++ {
		settleCurrent(t, env.svc, rec.ID, domain.SolutionDelay)
		res, err := env.svc.RunPeriod(ctx, rec.ID)
		require.NoError(t, err)
		require.True(t, res.Applied, res.Reason)
	}

	res, err := env.svc.SelectOption(ctx, rec.ID, "strip")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Reason, "would end the build on day 9, but day 12 was already played")

	res, err = env.svc.SelectOption(ctx, rec.ID, "pile")
	require.NoError(t, err)
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, 20, res.Status.TotalDuration)
	res, err = env.svc.RequestCash(ctx, rec.ID, 5000)
	require.NoError(t, err)
	require.True(t, res.Applied, "the dearer option is topped up from the planning remainder")

	final := playThrough(t, env.svc, rec.ID, domain.SolutionDelay)
	assert.Equal(t, 20, final.LastDay, "the last period stretches to the new duration")
	assert.True(t, final.Progress[0].Complete)
}
