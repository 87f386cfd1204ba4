package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/domain"
)

type SQLiteSimulationRepo struct {
	db db.DBTX
}

func NewSQLiteSimulationRepo(conn db.DBTX) *SQLiteSimulationRepo {
	return &SQLiteSimulationRepo{db: conn}
}

const simulationColumns = `id, name, status, budget, duration, seed, state, created_at, updated_at`

func (r *SQLiteSimulationRepo) Create(ctx context.Context, s *domain.SimulationRecord) error {
	query := `INSERT INTO simulations (` + simulationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		string(s.Status),
		s.Budget,
		s.Duration,
		int64(s.Seed),
		s.Snapshot,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting simulation: %w", err)
	}
	return nil
}

func (r *SQLiteSimulationRepo) GetByID(ctx context.Context, id string) (*domain.SimulationRecord, error) {
	query := `SELECT ` + simulationColumns + ` FROM simulations WHERE id = ?`
	return scanSimulation(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSimulationRepo) FindByPrefix(ctx context.Context, prefix string) ([]*domain.SimulationRecord, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	query := `SELECT ` + simulationColumns + ` FROM simulations
		WHERE id LIKE ? ESCAPE '\' ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("finding simulations by prefix: %w", err)
	}
	defer rows.Close()
	return scanSimulations(rows)
}

func (r *SQLiteSimulationRepo) List(ctx context.Context, includeCompleted bool) ([]*domain.SimulationRecord, error) {
	query := `SELECT ` + simulationColumns + ` FROM simulations`
	if !includeCompleted {
		query += ` WHERE status = 'running'`
	}
	query += ` ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing simulations: %w", err)
	}
	defer rows.Close()
	return scanSimulations(rows)
}

func (r *SQLiteSimulationRepo) Update(ctx context.Context, s *domain.SimulationRecord) error {
	query := `UPDATE simulations SET name = ?, status = ?, budget = ?, duration = ?, state = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		string(s.Status),
		s.Budget,
		s.Duration,
		s.Snapshot,
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating simulation: %w", err)
	}
	return requireAffected(res, "simulation")
}

func (r *SQLiteSimulationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM simulations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting simulation: %w", err)
	}
	return requireAffected(res, "simulation")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSimulation(row rowScanner) (*domain.SimulationRecord, error) {
	var s domain.SimulationRecord
	var status, createdAt, updatedAt string
	var seed int64

	err := row.Scan(&s.ID, &s.Name, &status, &s.Budget, &s.Duration, &seed, &s.Snapshot, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("simulation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning simulation: %w", err)
	}
	s.Status = domain.SimulationStatus(status)
	s.Seed = uint64(seed)
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing simulation created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing simulation updated_at: %w", err)
	}
	return &s, nil
}

func scanSimulations(rows *sql.Rows) ([]*domain.SimulationRecord, error) {
	var out []*domain.SimulationRecord
	for rows.Next() {
		s, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulations: %w", err)
	}
	return out, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
