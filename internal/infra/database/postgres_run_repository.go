package database

import (
	"context"
	"database/sql"
	"fmt"

	"teacher_hours_dashboard/internal/domain/report"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrRunNotFound is returned when a requested validation run does not exist.
var ErrRunNotFound = fmt.Errorf("validation run not found")

const createRunsTable = `
CREATE TABLE IF NOT EXISTS validation_runs (
    id                    BIGSERIAL PRIMARY KEY,
    run_at                TIMESTAMPTZ NOT NULL,
    record_count          INTEGER NOT NULL,
    hour_mismatch_count   INTEGER NOT NULL,
    duplicate_group_count INTEGER NOT NULL,
    overlap_count         INTEGER NOT NULL,
    malformed_count       INTEGER NOT NULL,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

// EnsureSchema creates the validation_runs table when it does not exist yet.
func (r *PostgresRunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("failed to ensure validation_runs schema: %w", err)
	}
	return nil
}

func (r *PostgresRunRepository) Create(ctx context.Context, run *report.Run) error {
	query := `INSERT INTO validation_runs
                (run_at, record_count, hour_mismatch_count, duplicate_group_count, overlap_count, malformed_count)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		run.RunAt,
		run.RecordCount,
		run.HourMismatchCount,
		run.DuplicateGroupCount,
		run.OverlapCount,
		run.MalformedCount,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert validation run: %w", err)
	}
	return nil
}

func (r *PostgresRunRepository) ListRecent(ctx context.Context, limit int) ([]*report.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, run_at, record_count, hour_mismatch_count, duplicate_group_count,
                     overlap_count, malformed_count, created_at
              FROM validation_runs
              ORDER BY run_at DESC, id DESC
              LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation runs: %w", err)
	}
	defer rows.Close()

	var runs []*report.Run
	for rows.Next() {
		run := &report.Run{}
		if err := rows.Scan(
			&run.ID,
			&run.RunAt,
			&run.RecordCount,
			&run.HourMismatchCount,
			&run.DuplicateGroupCount,
			&run.OverlapCount,
			&run.MalformedCount,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan validation run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating validation runs: %w", err)
	}
	return runs, nil
}
