package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type SimulationRepo interface {
	Create(ctx context.Context, s *domain.SimulationRecord) error
	GetByID(ctx context.Context, id string) (*domain.SimulationRecord, error)
	// FindByPrefix returns every simulation whose ID starts with prefix.
	FindByPrefix(ctx context.Context, prefix string) ([]*domain.SimulationRecord, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.SimulationRecord, error)
	Update(ctx context.Context, s *domain.SimulationRecord) error
	Delete(ctx context.Context, id string) error
}

// DayRecordRepo stores sealed ledger days. Rows are only ever appended.
type DayRecordRepo interface {
	Append(ctx context.Context, simulationID string, records []domain.DayRecord) error
	ListBySimulation(ctx context.Context, simulationID string) ([]domain.DayRecord, error)
	ListByPeriod(ctx context.Context, simulationID string, periodID int) ([]domain.DayRecord, error)
}

type ChangeRepo interface {
	Create(ctx context.Context, simulationID string, c domain.ConstructionChange) error
	ListBySimulation(ctx context.Context, simulationID string) ([]domain.ConstructionChange, error)
}

type ResultRepo interface {
	Save(ctx context.Context, r *domain.Result) error
	GetBySimulation(ctx context.Context, simulationID string) (*domain.Result, error)
	// Leaderboard ranks results by actual duration, then actual cost.
	Leaderboard(ctx context.Context, limit int) ([]*domain.Result, error)
}
