// Package run defines the persisted record of one simulation run: the
// parameters that reproduce it and the summary of what it produced.
package run

import (
	"crypto/sha256"
	"fmt"
	"time"

	"nucgen/domain/core"
)

// SimulationRun is the persisted record of one batch of generated decay
// chains. Nuclide, deck hash, chain count, seed, cutoff, and worker count
// form the batch contract; the fingerprint hashes them together so two runs
// can be compared at a glance.
type SimulationRun struct {
	ID         core.RunID    `json:"id" db:"id"`
	Nuclide    string        `json:"nuclide" db:"nuclide"`
	DeckHash   core.DeckHash `json:"deck_hash" db:"deck_hash"`
	Chains     int64         `json:"chains" db:"chains"`
	Seed       int64         `json:"seed" db:"seed"`
	CutoffS    float64       `json:"cutoff_s" db:"cutoff_s"`
	Workers    int           `json:"workers" db:"workers"`
	EventCount int64         `json:"event_count" db:"event_count"`
	Summary    Summary       `json:"summary" db:"summary"`
	RuntimeMS  int64         `json:"runtime_ms" db:"runtime_ms"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// NewSimulationRun stamps a fresh run record with an ID and creation time.
// Event count, summary, and runtime are filled in when the run completes.
func NewSimulationRun(nuclide string, deckHash core.DeckHash, chains, seed int64, cutoffS float64, workers int) *SimulationRun {
	return &SimulationRun{
		ID:        core.RunID(core.NewID()),
		Nuclide:   nuclide,
		DeckHash:  deckHash,
		Chains:    chains,
		Seed:      seed,
		CutoffS:   cutoffS,
		Workers:   workers,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the record is complete enough to persist
func (r *SimulationRun) Validate() error {
	if core.ID(r.ID).IsEmpty() {
		return core.NewValidationError("simulation_run", "id cannot be empty")
	}
	if r.Nuclide == "" {
		return core.NewValidationError("simulation_run", "nuclide cannot be empty")
	}
	if core.Hash(r.DeckHash).IsEmpty() {
		return core.NewValidationError("simulation_run", "deck_hash cannot be empty")
	}
	if r.Chains <= 0 {
		return core.NewValidationError("simulation_run", fmt.Sprintf("chain count %d must be positive", r.Chains))
	}
	if r.Workers <= 0 {
		return core.NewValidationError("simulation_run", fmt.Sprintf("worker count %d must be positive", r.Workers))
	}
	if r.CutoffS <= 0 {
		return core.NewValidationError("simulation_run", fmt.Sprintf("cutoff %g must be positive", r.CutoffS))
	}
	return nil
}

// Fingerprint hashes the batch contract. Resubmitting a request with these
// six parameters and the same generation modifiers (start level, vertex,
// buffering) replays the event stream byte for byte; the worker streams
// themselves are derived from this hash.
func (r *SimulationRun) Fingerprint() core.Hash {
	data := fmt.Sprintf("nuclide:%s|deck:%s|chains:%d|seed:%d|cutoff:%g|workers:%d",
		r.Nuclide, r.DeckHash, r.Chains, r.Seed, r.CutoffS, r.Workers)
	sum := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", sum))
}
