package migration

import (
	"context"
	"fmt"

	"nucgen/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSimulationRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create simulation_runs table")
	}

	if err := r.addSimulationRunsColumns(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add simulation_runs columns")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createSimulationRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS simulation_runs (
			id UUID PRIMARY KEY,
			nuclide VARCHAR(100) NOT NULL,
			deck_hash VARCHAR(64) NOT NULL,
			chains BIGINT NOT NULL,
			seed BIGINT NOT NULL,
			cutoff_s DOUBLE PRECISION NOT NULL,
			workers INTEGER NOT NULL,
			event_count BIGINT NOT NULL DEFAULT 0,
			summary JSONB,
			runtime_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) addSimulationRunsColumns(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			-- Add summary column if it doesn't exist
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'simulation_runs' AND column_name = 'summary'
			) THEN
				ALTER TABLE simulation_runs ADD COLUMN summary JSONB;
			END IF;

			-- Add runtime_ms column if it doesn't exist
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'simulation_runs' AND column_name = 'runtime_ms'
			) THEN
				ALTER TABLE simulation_runs ADD COLUMN runtime_ms BIGINT NOT NULL DEFAULT 0;
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_runs_nuclide ON simulation_runs(nuclide)",
		"CREATE INDEX IF NOT EXISTS idx_runs_deck_hash ON simulation_runs(deck_hash)",
		"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON simulation_runs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_runs_nuclide_created ON simulation_runs(nuclide, created_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			fmt.Printf("Warning: failed to create index: %v\n", err)
		}
	}

	return nil
}
