package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded builder execution.
type Run struct {
	ID           string        `json:"id"`
	Dataset      string        `json:"dataset"`
	Source       string        `json:"source"`
	RawRecords   int           `json:"raw_records"`
	Dropped      int           `json:"dropped_records"`
	Interactions int           `json:"interactions"`
	Users        int           `json:"users"`
	Items        int           `json:"items"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// RunRepository persists builder runs
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts a run, assigning an id and timestamp when missing
func (r *RunRepository) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO build_runs (
			id, dataset, source, raw_records, dropped_records,
			interactions, users, items, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Dataset,
		run.Source,
		run.RawRecords,
		run.Dropped,
		run.Interactions,
		run.Users,
		run.Items,
		run.Duration.Milliseconds(),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record build run: %w", err)
	}
	return nil
}

// List returns the most recent runs for a dataset, newest first
func (r *RunRepository) List(ctx context.Context, dataset string, limit int) ([]Run, error) {
	query := `
		SELECT
			id, dataset, source, raw_records, dropped_records,
			interactions, users, items, duration_ms, created_at
		FROM build_runs
		WHERE dataset = ?
		ORDER BY created_at DESC
	`
	args := []interface{}{dataset}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list build runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(
			&run.ID,
			&run.Dataset,
			&run.Source,
			&run.RawRecords,
			&run.Dropped,
			&run.Interactions,
			&run.Users,
			&run.Items,
			&durationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan build run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build runs: %w", err)
	}

	return runs, nil
}
