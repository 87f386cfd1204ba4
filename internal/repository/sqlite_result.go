package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/domain"
)

type SQLiteResultRepo struct {
	db db.DBTX
}

func NewSQLiteResultRepo(conn db.DBTX) *SQLiteResultRepo {
	return &SQLiteResultRepo{db: conn}
}

const resultColumns = `simulation_id, name, planned_cost, planned_duration, actual_cost, actual_duration,
	idle_days, risk_cost, extra_days, reserve_left, completed_at`

// Save inserts or replaces the result of a simulation. Results outlive the
// simulation row so the leaderboard survives `sim remove`.
func (r *SQLiteResultRepo) Save(ctx context.Context, res *domain.Result) error {
	query := `INSERT INTO results (` + resultColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(simulation_id) DO UPDATE SET
			name = excluded.name,
			planned_cost = excluded.planned_cost,
			planned_duration = excluded.planned_duration,
			actual_cost = excluded.actual_cost,
			actual_duration = excluded.actual_duration,
			idle_days = excluded.idle_days,
			risk_cost = excluded.risk_cost,
			extra_days = excluded.extra_days,
			reserve_left = excluded.reserve_left,
			completed_at = excluded.completed_at`
	_, err := r.db.ExecContext(ctx, query,
		res.SimulationID,
		res.Name,
		res.PlannedCost,
		res.PlannedDuration,
		res.ActualCost,
		res.ActualDuration,
		res.IdleDays,
		res.RiskCost,
		res.ExtraDays,
		res.ReserveLeft,
		formatTime(res.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

func (r *SQLiteResultRepo) GetBySimulation(ctx context.Context, simulationID string) (*domain.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE simulation_id = ?`
	res, err := scanResult(r.db.QueryRowContext(ctx, query, simulationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result: %w", ErrNotFound)
	}
	return res, err
}

func (r *SQLiteResultRepo) Leaderboard(ctx context.Context, limit int) ([]*domain.Result, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + resultColumns + ` FROM results
		ORDER BY actual_duration, actual_cost, completed_at LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard: %w", err)
	}
	defer rows.Close()

	var out []*domain.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard: %w", err)
	}
	return out, nil
}

func scanResult(row rowScanner) (*domain.Result, error) {
	var res domain.Result
	var completedAt string
	err := row.Scan(
		&res.SimulationID, &res.Name, &res.PlannedCost, &res.PlannedDuration,
		&res.ActualCost, &res.ActualDuration, &res.IdleDays, &res.RiskCost,
		&res.ExtraDays, &res.ReserveLeft, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}
	if res.CompletedAt, err = parseTime(completedAt); err != nil {
		return nil, fmt.Errorf("parsing result completed_at: %w", err)
	}
	return &res, nil
}
