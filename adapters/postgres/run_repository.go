package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nucgen/domain/core"
	"nucgen/domain/run"
	"nucgen/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun persists a completed run record
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, rec *run.SimulationRun) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	// Summary implements driver.Valuer, so it will be automatically converted
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO simulation_runs (id, nuclide, deck_hash, chains, seed, cutoff_s, workers, event_count, summary, runtime_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, rec.ID, rec.Nuclide, rec.DeckHash, rec.Chains, rec.Seed, rec.CutoffS, rec.Workers, rec.EventCount, rec.Summary, rec.RuntimeMS, rec.CreatedAt)

	return err
}

// GetRun retrieves a run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*run.SimulationRun, error) {
	var rec run.SimulationRun
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, nuclide, deck_hash, chains, seed, cutoff_s, workers, event_count, summary, runtime_ms, created_at
		FROM simulation_runs
		WHERE id = $1
	`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRuns returns run records, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*run.SimulationRun, error) {
	query := `
		SELECT id, nuclide, deck_hash, chains, seed, cutoff_s, workers, event_count, summary, runtime_ms, created_at
		FROM simulation_runs
	`
	args := []interface{}{}
	if filters.Nuclide != "" {
		args = append(args, filters.Nuclide)
		query += fmt.Sprintf(" WHERE nuclide = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*run.SimulationRun
	for rows.Next() {
		var rec run.SimulationRun
		err := rows.Scan(
			&rec.ID,
			&rec.Nuclide,
			&rec.DeckHash,
			&rec.Chains,
			&rec.Seed,
			&rec.CutoffS,
			&rec.Workers,
			&rec.EventCount,
			&rec.Summary,
			&rec.RuntimeMS,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, &rec)
	}
	return runs, rows.Err()
}
