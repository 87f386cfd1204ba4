package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/importer"
)

var (
	// ErrAmbiguousID is returned when an ID prefix matches more than one
	// simulation.
	ErrAmbiguousID   = errors.New("ambiguous simulation id")
	ErrUnknownOption = errors.New("unknown construction option")
	ErrUnknownPeriod = errors.New("unknown period")
)

// SimulationService drives simulations by ID or unique ID prefix. Mutating
// calls are serialised per simulation and persisted atomically. Calls the
// engine ignores come back with Applied=false rather than an error.
type SimulationService interface {
	Create(ctx context.Context, req contract.CreateSimulationRequest) (*domain.SimulationRecord, error)
	Get(ctx context.Context, ref string) (*domain.SimulationRecord, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.SimulationRecord, error)
	Status(ctx context.Context, ref string) (*contract.SimulationStatusView, error)
	History(ctx context.Context, ref string) ([]domain.DayRecord, error)
	PeriodHistory(ctx context.Context, ref string, periodID int) ([]domain.DayRecord, error)
	Changes(ctx context.Context, ref string) ([]domain.ConstructionChange, error)
	Delete(ctx context.Context, ref string) error

	SelectOption(ctx context.Context, ref string, optionID string) (*contract.ActionResult, error)
	ResolveRisk(ctx context.Context, ref string, choice domain.Solution) (*contract.ActionResult, error)
	AcknowledgeRisk(ctx context.Context, ref string) (*contract.ActionResult, error)
	ProcessDay(ctx context.Context, ref string) (*contract.ActionResult, error)
	RunPeriod(ctx context.Context, ref string) (*contract.ActionResult, error)
	AdvancePeriod(ctx context.Context, ref string) (*contract.ActionResult, error)
	RequestCash(ctx context.Context, ref string, amount int) (*contract.ActionResult, error)
	RequestAdvance(ctx context.Context, ref string, category domain.Category, amount int) (*contract.ActionResult, error)
}

type ResultService interface {
	Get(ctx context.Context, simulationID string) (*domain.Result, error)
	Leaderboard(ctx context.Context, req contract.LeaderboardRequest) ([]contract.LeaderboardEntry, error)
}

// PlanImportService turns a plan file into a running simulation.
type PlanImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*domain.SimulationRecord, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.PlanFile) (*domain.SimulationRecord, error)
}
