package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/domain"
)

type SQLiteDayRecordRepo struct {
	db db.DBTX
}

func NewSQLiteDayRecordRepo(conn db.DBTX) *SQLiteDayRecordRepo {
	return &SQLiteDayRecordRepo{db: conn}
}

func (r *SQLiteDayRecordRepo) Append(ctx context.Context, simulationID string, records []domain.DayRecord) error {
	query := `INSERT INTO day_records
		(simulation_id, day, period_id, construction_type, required_money, issued_money, is_idle)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, rec := range records {
		var category sql.NullString
		if rec.ConstructionType != nil {
			category = sql.NullString{String: string(*rec.ConstructionType), Valid: true}
		}
		_, err := r.db.ExecContext(ctx, query,
			simulationID,
			rec.Day,
			rec.PeriodID,
			category,
			rec.RequiredMoney,
			rec.IssuedMoney,
			boolToInt(rec.IsIdle),
		)
		if err != nil {
			return fmt.Errorf("inserting day record %d: %w", rec.Day, err)
		}
	}
	return nil
}

func (r *SQLiteDayRecordRepo) ListBySimulation(ctx context.Context, simulationID string) ([]domain.DayRecord, error) {
	query := `SELECT day, period_id, construction_type, required_money, issued_money, is_idle
		FROM day_records WHERE simulation_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("listing day records: %w", err)
	}
	defer rows.Close()
	return scanDayRecords(rows)
}

func (r *SQLiteDayRecordRepo) ListByPeriod(ctx context.Context, simulationID string, periodID int) ([]domain.DayRecord, error) {
	query := `SELECT day, period_id, construction_type, required_money, issued_money, is_idle
		FROM day_records WHERE simulation_id = ? AND period_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, simulationID, periodID)
	if err != nil {
		return nil, fmt.Errorf("listing day records by period: %w", err)
	}
	defer rows.Close()
	return scanDayRecords(rows)
}

func scanDayRecords(rows *sql.Rows) ([]domain.DayRecord, error) {
	var out []domain.DayRecord
	for rows.Next() {
		var rec domain.DayRecord
		var category sql.NullString
		var idle int
		if err := rows.Scan(&rec.Day, &rec.PeriodID, &category, &rec.RequiredMoney, &rec.IssuedMoney, &idle); err != nil {
			return nil, fmt.Errorf("scanning day record: %w", err)
		}
		if category.Valid {
			c := domain.Category(category.String)
			rec.ConstructionType = &c
		}
		rec.IsIdle = intToBool(idle)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day records: %w", err)
	}
	return out, nil
}
