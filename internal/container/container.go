package container

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"nucgen/adapters/decaydata"
	"nucgen/adapters/postgres"
	"nucgen/adapters/rng"
	"nucgen/app"
	"nucgen/domain/atomic"
	"nucgen/domain/decay"
	"nucgen/internal/api"
	"nucgen/internal/config"
	"nucgen/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Physics data
	DeckSource *decaydata.DirSource
	Bindings   *atomic.Library

	// Repositories (data access layer)
	RunRepo ports.RunRepository

	// Application services
	Simulation *app.SimulationService
	Reports    *app.ReportService
	SSEHub     *api.SSEHub
}

// New creates the dependency container and loads the physics data.
// Call InitWithDatabase (optional) and then InitServices before use.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
	}

	if err := c.initData(); err != nil {
		return nil, fmt.Errorf("failed to initialize decay data: %w", err)
	}

	return c, nil
}

// InitWithDatabase initializes components that require database access.
// Skipping it leaves run persistence disabled.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.RunRepo = postgres.NewRunRepository(c.DB)

	log.Printf("[Container] Run persistence enabled")
	return nil
}

// InitServices initializes the application services over whatever
// repositories were set up before it.
func (c *Container) InitServices() error {
	defaults := app.Defaults{
		Workers:   c.Config.Simulation.Workers,
		CutoffS:   c.Config.Simulation.CutoffS,
		MaxChains: c.Config.Simulation.MaxChains,
		Bins:      c.Config.Simulation.HistogramBins,
	}

	c.Simulation = app.NewSimulationService(c.DeckSource, c.Bindings, rng.New(), c.RunRepo, defaults)

	// Reports only walk scheme structure, so the library seed is arbitrary.
	library := decay.NewLibrary(c.DeckSource, c.Bindings, c.Config.Simulation.CutoffS, rand.New(rand.NewSource(1)))
	c.Reports = app.NewReportService(library)

	c.SSEHub = api.NewSSEHub()

	log.Printf("[Container] Services initialized (persistence: %v)", c.RunRepo != nil)
	return nil
}

// initData loads the decay decks and electron binding energies
func (c *Container) initData() error {
	c.DeckSource = decaydata.NewDirSource(c.Config.Data.DecayDataDir)

	bindings, err := decaydata.LoadBindings(c.Config.Data.BindingEnergyFile)
	if err != nil {
		return fmt.Errorf("failed to load binding energies: %w", err)
	}
	c.Bindings = bindings

	names, err := c.DeckSource.List()
	if err != nil {
		return fmt.Errorf("failed to scan decay data directory: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no decay decks found in %s", c.Config.Data.DecayDataDir)
	}

	log.Printf("[Container] Loaded %d decay decks from %s", len(names), c.Config.Data.DecayDataDir)
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
