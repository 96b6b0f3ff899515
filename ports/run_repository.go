package ports

import (
	"context"

	"nucgen/domain/core"
	"nucgen/domain/run"
)

// RunFilters narrows run listings
type RunFilters struct {
	Nuclide string
	Limit   int
	Offset  int
}

// RunRepository defines persistence for completed simulation runs
type RunRepository interface {
	// SaveRun persists a completed run record
	SaveRun(ctx context.Context, r *run.SimulationRun) error

	// GetRun retrieves a run by ID
	GetRun(ctx context.Context, id core.RunID) (*run.SimulationRun, error)

	// ListRuns returns run records, newest first
	ListRuns(ctx context.Context, filters RunFilters) ([]*run.SimulationRun, error)
}
