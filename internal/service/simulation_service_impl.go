package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/engine"
	"github.com/alexanderramin/housebudget/internal/repository"
	"github.com/google/uuid"
)

type simulationService struct {
	sims     repository.SimulationRepo
	days     repository.DayRecordRepo
	changes  repository.ChangeRepo
	uow      db.UnitOfWork
	catalog  *catalog.Catalog
	seed     uint64
	locks    *keyedMutex
	observer UseCaseObserver
	now      func() time.Time
}

// NewSimulationService builds the simulation use cases. A zero seed draws a
// fresh seed for every new simulation.
func NewSimulationService(
	sims repository.SimulationRepo,
	days repository.DayRecordRepo,
	changes repository.ChangeRepo,
	uow db.UnitOfWork,
	cat *catalog.Catalog,
	seed uint64,
	observers ...UseCaseObserver,
) SimulationService {
	return &simulationService{
		sims:     sims,
		days:     days,
		changes:  changes,
		uow:      uow,
		catalog:  cat,
		seed:     seed,
		locks:    newKeyedMutex(),
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *simulationService) Create(ctx context.Context, req contract.CreateSimulationRequest) (rec *domain.SimulationRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"categories": len(req.Plan.Selections)}
	defer func() { observe(ctx, s.observer, "create-simulation", startedAt, fields, err) }()

	seed := req.Seed
	if seed == 0 {
		seed = s.seed
	}
	if seed == 0 {
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}

	sim, err := engine.New(req.Plan, s.assigner(seed))
	if err != nil {
		return nil, fmt.Errorf("starting simulation: %w", err)
	}
	blob, err := s.encode(sim)
	if err != nil {
		return nil, err
	}

	now := s.now()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "build " + now.Format("2006-01-02 15:04")
	}
	rec = &domain.SimulationRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.SimulationRunning,
		Budget:    req.Plan.Budget,
		Duration:  req.Plan.Duration,
		Seed:      seed,
		Snapshot:  blob,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields["simulation"] = rec.DisplayID()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSimulationRepo(tx).Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *simulationService) Get(ctx context.Context, ref string) (*domain.SimulationRecord, error) {
	return resolveSimulation(ctx, s.sims, ref)
}

func (s *simulationService) List(ctx context.Context, includeCompleted bool) ([]*domain.SimulationRecord, error) {
	return s.sims.List(ctx, includeCompleted)
}

func (s *simulationService) Status(ctx context.Context, ref string) (*contract.SimulationStatusView, error) {
	rec, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return nil, err
	}
	sim, err := s.restore(rec)
	if err != nil {
		return nil, err
	}
	return buildStatusView(rec, sim), nil
}

// History returns the sealed day records from storage followed by the
// records of the period still being played.
func (s *simulationService) History(ctx context.Context, ref string) ([]domain.DayRecord, error) {
	rec, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return nil, err
	}
	sealed, err := s.days.ListBySimulation(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	sim, err := s.restore(rec)
	if err != nil {
		return nil, err
	}
	return append(sealed, sim.PendingRecords()...), nil
}

// PeriodHistory returns the records of one period: from storage once it is
// sealed, from the snapshot while it is being played. Periods not reached
// yet have no records.
func (s *simulationService) PeriodHistory(ctx context.Context, ref string, periodID int) ([]domain.DayRecord, error) {
	rec, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return nil, err
	}
	sim, err := s.restore(rec)
	if err != nil {
		return nil, err
	}
	periods := sim.Periods()
	if periodID < 1 || periodID > len(periods) {
		return nil, fmt.Errorf("%w %d: periods run from 1 to %d", ErrUnknownPeriod, periodID, len(periods))
	}
	if periods[periodID-1].Sealed {
		return s.days.ListByPeriod(ctx, rec.ID, periodID)
	}
	if cur, ok := sim.CurrentPeriod(); ok && cur.ID == periodID {
		return sim.PendingRecords(), nil
	}
	return nil, nil
}

func (s *simulationService) Changes(ctx context.Context, ref string) ([]domain.ConstructionChange, error) {
	rec, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return nil, err
	}
	return s.changes.ListBySimulation(ctx, rec.ID)
}

func (s *simulationService) Delete(ctx context.Context, ref string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"simulation": ref}
	defer func() { observe(ctx, s.observer, "delete-simulation", startedAt, fields, err) }()

	rec, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(rec.ID)
	defer unlock()
	return s.sims.Delete(ctx, rec.ID)
}

func (s *simulationService) SelectOption(ctx context.Context, ref string, optionID string) (*contract.ActionResult, error) {
	opt, ok := s.catalog.Option(optionID)
	if !ok {
		_, suggestions, _ := s.catalog.ResolveOption("", optionID)
		if len(suggestions) > 0 {
			return nil, fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownOption, optionID, strings.Join(suggestions, ", "))
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownOption, optionID)
	}

	fields := map[string]any{"option": opt.ID}
	return s.mutate(ctx, "select-option", ref, fields, func(sim *engine.Simulation) *contract.ActionResult {
		change, applied := sim.SelectOption(opt)
		if !applied {
			return &contract.ActionResult{Reason: selectRejection(sim, opt)}
		}
		return &contract.ActionResult{Applied: true, Change: &change}
	})
}

func selectRejection(sim *engine.Simulation, opt domain.ConstructionOption) string {
	plan := sim.Plan()
	if cur, ok := plan.Option(opt.Category); ok && cur.ID == opt.ID {
		return fmt.Sprintf("%s is already the selected %s option", opt.ID, opt.Category)
	}
	plan.Select(opt)
	if plan.TotalDuration() < sim.LastDay() {
		return fmt.Sprintf("%s would end the build on day %d, but day %d was already played",
			opt.ID, plan.TotalDuration(), sim.LastDay())
	}
	return fmt.Sprintf("%s cannot be selected now", opt.ID)
}

func (s *simulationService) ResolveRisk(ctx context.Context, ref string, choice domain.Solution) (*contract.ActionResult, error) {
	fields := map[string]any{"choice": string(choice)}
	return s.mutate(ctx, "resolve-risk", ref, fields, func(sim *engine.Simulation) *contract.ActionResult {
		p, _ := sim.CurrentPeriod()
		fields["period"] = p.ID
		if !sim.ResolveRisk(p.ID, choice) {
			return &contract.ActionResult{Reason: resolveRejection(p)}
		}
		return &contract.ActionResult{Applied: true}
	})
}

func resolveRejection(p domain.Period) string {
	switch {
	case p.Risk == nil:
		return fmt.Sprintf("period %d has no risk", p.ID)
	case p.Acknowledged:
		return fmt.Sprintf("the risk of period %d was acknowledged", p.ID)
	case p.Selected != nil:
		return fmt.Sprintf("the risk of period %d is already resolved with %s", p.ID, *p.Selected)
	default:
		return fmt.Sprintf("invalid choice for period %d", p.ID)
	}
}

func (s *simulationService) AcknowledgeRisk(ctx context.Context, ref string) (*contract.ActionResult, error) {
	return s.mutate(ctx, "acknowledge-risk", ref, nil, func(sim *engine.Simulation) *contract.ActionResult {
		p, _ := sim.CurrentPeriod()
		if sim.AcknowledgeRisk(p.ID) {
			return &contract.ActionResult{Applied: true}
		}
		switch {
		case p.Risk == nil:
			return &contract.ActionResult{Reason: fmt.Sprintf("period %d has no risk", p.ID)}
		case p.Settled():
			return &contract.ActionResult{Reason: fmt.Sprintf("the risk of period %d is already settled", p.ID)}
		default:
			return &contract.ActionResult{Reason: fmt.Sprintf("%s affects the build in period %d; choose solution or alternative", p.Risk.Title, p.ID)}
		}
	})
}

// ProcessDay plays the next calendar day of the current period. Days are
// only played once the period's risk is settled.
func (s *simulationService) ProcessDay(ctx context.Context, ref string) (*contract.ActionResult, error) {
	return s.mutate(ctx, "process-day", ref, nil, func(sim *engine.Simulation) *contract.ActionResult {
		p, _ := sim.CurrentPeriod()
		if !p.Settled() {
			return &contract.ActionResult{Reason: fmt.Sprintf("the risk of period %d needs a decision first", p.ID)}
		}
		day := sim.LastDay() + 1
		if day > p.EndDay {
			return &contract.ActionResult{Reason: fmt.Sprintf("period %d is fully played; advance to continue", p.ID)}
		}
		res := &contract.ActionResult{Applied: true}
		if rec, ok := sim.ProcessDay(day); ok {
			res.Records = []domain.DayRecord{rec}
		}
		return res
	})
}

// RunPeriod plays every remaining day of the current period and seals it.
func (s *simulationService) RunPeriod(ctx context.Context, ref string) (*contract.ActionResult, error) {
	return s.mutate(ctx, "run-period", ref, nil, func(sim *engine.Simulation) *contract.ActionResult {
		p, _ := sim.CurrentPeriod()
		if !p.Settled() {
			return &contract.ActionResult{Reason: fmt.Sprintf("the risk of period %d needs a decision first", p.ID)}
		}
		records := sim.ProcessPeriod()
		if err := sim.AdvancePeriod(); err != nil {
			return &contract.ActionResult{Reason: err.Error()}
		}
		return &contract.ActionResult{Applied: true, Records: records}
	})
}

func (s *simulationService) AdvancePeriod(ctx context.Context, ref string) (*contract.ActionResult, error) {
	return s.mutate(ctx, "advance-period", ref, nil, func(sim *engine.Simulation) *contract.ActionResult {
		if err := sim.AdvancePeriod(); err != nil {
			return &contract.ActionResult{Reason: err.Error()}
		}
		return &contract.ActionResult{Applied: true}
	})
}

func (s *simulationService) RequestCash(ctx context.Context, ref string, amount int) (*contract.ActionResult, error) {
	fields := map[string]any{"amount": amount}
	return s.mutate(ctx, "request-cash", ref, fields, func(sim *engine.Simulation) *contract.ActionResult {
		if !sim.RequestCash(amount) {
			return &contract.ActionResult{Reason: fmt.Sprintf("amount must be between 1 and the planning remainder (%d)", sim.PlanningRemainder())}
		}
		return &contract.ActionResult{Applied: true}
	})
}

func (s *simulationService) RequestAdvance(ctx context.Context, ref string, category domain.Category, amount int) (*contract.ActionResult, error) {
	fields := map[string]any{"category": string(category), "amount": amount}
	return s.mutate(ctx, "request-advance", ref, fields, func(sim *engine.Simulation) *contract.ActionResult {
		if !sim.RequestAdvance(category, amount) {
			return &contract.ActionResult{Reason: fmt.Sprintf("amount must be between 1 and the %s advance available (%d)", category, sim.AdvanceAvailable(category))}
		}
		return &contract.ActionResult{Applied: true}
	})
}

// mutate loads the simulation, applies fn and, when fn applied something,
// writes the snapshot, newly sealed day records, new construction changes
// and the final result in one transaction. Everything is read through the
// transaction: the store runs on a single connection.
func (s *simulationService) mutate(
	ctx context.Context,
	useCase string,
	ref string,
	fields map[string]any,
	fn func(sim *engine.Simulation) *contract.ActionResult,
) (res *contract.ActionResult, err error) {
	startedAt := time.Now().UTC()
	if fields == nil {
		fields = map[string]any{}
	}
	fields["simulation"] = ref
	defer func() {
		if res != nil {
			fields["applied"] = res.Applied
		}
		observe(ctx, s.observer, useCase, startedAt, fields, err)
	}()

	head, err := resolveSimulation(ctx, s.sims, ref)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(head.ID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSims := repository.NewSQLiteSimulationRepo(tx)

		rec, err := txSims.GetByID(ctx, head.ID)
		if err != nil {
			return err
		}
		if rec.Status == domain.SimulationCompleted {
			return fmt.Errorf("simulation %s: %w", rec.DisplayID(), engine.ErrSimulationComplete)
		}
		sim, err := s.restore(rec)
		if err != nil {
			return err
		}

		sealedBefore := len(sim.SealedHistory())
		changesBefore := len(sim.Changes())

		res = fn(sim)
		if !res.Applied {
			res.Status = buildStatusView(rec, sim)
			return nil
		}

		if rec.Snapshot, err = s.encode(sim); err != nil {
			return err
		}
		now := s.now()
		rec.UpdatedAt = now
		if sim.Done() {
			rec.Status = domain.SimulationCompleted
		}
		if err := txSims.Update(ctx, rec); err != nil {
			return err
		}

		txDays := repository.NewSQLiteDayRecordRepo(tx)
		for _, sealed := range sim.SealedHistory()[sealedBefore:] {
			if err := txDays.Append(ctx, rec.ID, sealed); err != nil {
				return err
			}
		}

		txChanges := repository.NewSQLiteChangeRepo(tx)
		for _, c := range sim.Changes()[changesBefore:] {
			if err := txChanges.Create(ctx, rec.ID, c); err != nil {
				return err
			}
		}

		if sim.Done() {
			result := sim.Result(rec.ID, rec.Name, now)
			if err := repository.NewSQLiteResultRepo(tx).Save(ctx, &result); err != nil {
				return err
			}
		}

		res.Status = buildStatusView(rec, sim)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *simulationService) assigner(seed uint64) *engine.RiskAssigner {
	return engine.NewRiskAssigner(s.catalog.Risks(), engine.NewPCGSource(seed))
}

func (s *simulationService) restore(rec *domain.SimulationRecord) (*engine.Simulation, error) {
	st, err := repository.DecodeState(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", rec.DisplayID(), err)
	}
	sim, err := engine.Restore(st, s.assigner(rec.Seed))
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", rec.DisplayID(), err)
	}
	return sim, nil
}

func (s *simulationService) encode(sim *engine.Simulation) ([]byte, error) {
	st, err := sim.Snapshot()
	if err != nil {
		return nil, err
	}
	return repository.EncodeState(st)
}
