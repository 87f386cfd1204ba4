package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every statement in order. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS simulations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'running'
		           CHECK(status IN ('running','completed')),
		budget     INTEGER NOT NULL CHECK(budget > 0),
		duration   INTEGER NOT NULL CHECK(duration > 0),
		state      BLOB NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_simulations_status ON simulations(status)`,

	`CREATE TABLE IF NOT EXISTS day_records (
		simulation_id     TEXT NOT NULL REFERENCES simulations(id) ON DELETE CASCADE,
		day               INTEGER NOT NULL CHECK(day > 0),
		period_id         INTEGER NOT NULL CHECK(period_id > 0),
		construction_type TEXT,
		required_money    INTEGER NOT NULL CHECK(required_money >= 0),
		issued_money      INTEGER NOT NULL CHECK(issued_money >= 0 AND issued_money <= required_money),
		is_idle           INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (simulation_id, day)
	)`,

	`CREATE TABLE IF NOT EXISTS construction_changes (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		simulation_id  TEXT NOT NULL REFERENCES simulations(id) ON DELETE CASCADE,
		day            INTEGER NOT NULL,
		category       TEXT NOT NULL,
		from_option_id TEXT NOT NULL DEFAULT '',
		to_option_id   TEXT NOT NULL,
		cost_delta     INTEGER NOT NULL,
		duration_delta INTEGER NOT NULL,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_changes_simulation ON construction_changes(simulation_id)`,

	`CREATE TABLE IF NOT EXISTS results (
		simulation_id    TEXT PRIMARY KEY,
		name             TEXT NOT NULL DEFAULT '',
		planned_cost     INTEGER NOT NULL,
		planned_duration INTEGER NOT NULL,
		actual_cost      INTEGER NOT NULL,
		actual_duration  INTEGER NOT NULL,
		idle_days        INTEGER NOT NULL DEFAULT 0,
		risk_cost        INTEGER NOT NULL DEFAULT 0,
		extra_days       INTEGER NOT NULL DEFAULT 0,
		reserve_left     INTEGER NOT NULL DEFAULT 0,
		completed_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_results_rank ON results(actual_duration, actual_cost)`,

	// Seed of the risk draw, kept for replaying a session.
	`ALTER TABLE simulations ADD COLUMN seed INTEGER NOT NULL DEFAULT 0`,
}
