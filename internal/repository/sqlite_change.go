package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/domain"
)

type SQLiteChangeRepo struct {
	db db.DBTX
}

func NewSQLiteChangeRepo(conn db.DBTX) *SQLiteChangeRepo {
	return &SQLiteChangeRepo{db: conn}
}

func (r *SQLiteChangeRepo) Create(ctx context.Context, simulationID string, c domain.ConstructionChange) error {
	query := `INSERT INTO construction_changes
		(simulation_id, day, category, from_option_id, to_option_id, cost_delta, duration_delta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		simulationID,
		c.Day,
		string(c.Category),
		c.FromOptionID,
		c.ToOptionID,
		c.CostDelta,
		c.DurationDelta,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("inserting construction change: %w", err)
	}
	return nil
}

func (r *SQLiteChangeRepo) ListBySimulation(ctx context.Context, simulationID string) ([]domain.ConstructionChange, error) {
	query := `SELECT day, category, from_option_id, to_option_id, cost_delta, duration_delta
		FROM construction_changes WHERE simulation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("listing construction changes: %w", err)
	}
	defer rows.Close()

	var out []domain.ConstructionChange
	for rows.Next() {
		var c domain.ConstructionChange
		var category string
		if err := rows.Scan(&c.Day, &category, &c.FromOptionID, &c.ToOptionID, &c.CostDelta, &c.DurationDelta); err != nil {
			return nil, fmt.Errorf("scanning construction change: %w", err)
		}
		c.Category = domain.Category(category)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating construction changes: %w", err)
	}
	return out, nil
}
