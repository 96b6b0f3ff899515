// Package app orchestrates decay chain generation and reporting over the
// domain engine, behind the ports the adapters implement.
package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	stdatomic "sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"nucgen/domain/atomic"
	"nucgen/domain/core"
	"nucgen/domain/decay"
	"nucgen/domain/event"
	"nucgen/domain/records"
	"nucgen/domain/run"
	"nucgen/domain/sampling"
	"nucgen/internal/analysis"
	"nucgen/ports"
)

// progressStep is how many chains a partition generates between progress
// callbacks and context checks.
const progressStep = 1024

// Defaults carries the configured fallbacks for request fields left zero.
type Defaults struct {
	Workers   int
	CutoffS   float64
	MaxChains int64
	Bins      int
}

// SimulationService generates batches of decay chains. Each request is
// split into fixed partitions that each own a deterministic random stream
// and an independent decay system, so the full event stream is a pure
// function of the request parameters no matter how the partitions are
// scheduled.
type SimulationService struct {
	source   decay.DeckSource
	bindings *atomic.Library
	rngPort  ports.RNGPort
	runRepo  ports.RunRepository
	defaults Defaults
}

// NewSimulationService wires the deck source, binding energies, and stream
// adapter. runRepo may be nil; completed runs are then not persisted.
func NewSimulationService(source decay.DeckSource, bindings *atomic.Library, rngPort ports.RNGPort, runRepo ports.RunRepository, defaults Defaults) *SimulationService {
	return &SimulationService{
		source:   source,
		bindings: bindings,
		rngPort:  rngPort,
		runRepo:  runRepo,
		defaults: defaults,
	}
}

// VertexSpec asks the service to stamp one sampled decay vertex per chain.
type VertexSpec struct {
	// Kind selects the volume: "cube" or "cylinder".
	Kind string `json:"kind"`
	// Side is the cube edge length; zero means the unit cube.
	Side float64 `json:"side,omitempty"`
	// Radius and Length describe the cylinder, axis along z.
	Radius float64 `json:"radius,omitempty"`
	Length float64 `json:"length,omitempty"`
}

// SimulateRequest parameterizes one batch. The event stream is a pure
// function of every field up to Buffered; MaxEvents and Progress only shape
// delivery.
type SimulateRequest struct {
	Nuclide string `json:"nuclide"`
	Chains  int64  `json:"chains"`
	Seed    int64  `json:"seed"`
	// Workers is the partition count. It is part of the reproducibility
	// contract: the same value replays the same stream. Zero takes the
	// configured default.
	Workers int     `json:"workers,omitempty"`
	CutoffS float64 `json:"cutoff_s,omitempty"`
	Bins    int     `json:"bins,omitempty"`
	// StartLevel forces every chain to fire from a named level instead of
	// sampling the chain-start distribution.
	StartLevel string      `json:"start_level,omitempty"`
	Vertex     *VertexSpec `json:"vertex,omitempty"`
	// Buffered pre-draws one fixed slot block per chain, sized by the
	// system's slot bound, and generates the chain from it.
	Buffered bool `json:"buffered,omitempty"`
	// MaxEvents caps the events returned in the result; zero returns all.
	// Counts and summaries always cover the full stream.
	MaxEvents int `json:"max_events,omitempty"`
	// Progress, when set, is called as partitions finish batches of chains.
	// It runs on worker goroutines and must be safe for concurrent use.
	Progress func(done, total int64) `json:"-"`
}

// SimulateResult pairs the persisted run record with its event stream.
type SimulateResult struct {
	Run    *run.SimulationRun `json:"run"`
	Events []event.Event      `json:"events"`
}

type partition struct {
	worker     int
	chainStart int64
	chains     int64
}

// Run generates the requested batch. The deck is loaded once and probed
// for construction errors before any worker starts; generation itself
// never fails short of a cancelled context.
func (s *SimulationService) Run(ctx context.Context, req SimulateRequest) (*SimulateResult, error) {
	if req.Nuclide == "" {
		return nil, core.NewValidationError("simulate", "nuclide is required")
	}
	if req.Workers == 0 {
		req.Workers = s.defaults.Workers
	}
	if req.CutoffS == 0 {
		req.CutoffS = s.defaults.CutoffS
	}
	if req.Bins == 0 {
		req.Bins = s.defaults.Bins
	}
	if req.Chains <= 0 {
		return nil, core.NewValidationError("simulate", fmt.Sprintf("chain count %d must be positive", req.Chains))
	}
	if s.defaults.MaxChains > 0 && req.Chains > s.defaults.MaxChains {
		return nil, core.NewValidationError("simulate", fmt.Sprintf("chain count %d exceeds limit %d", req.Chains, s.defaults.MaxChains))
	}
	if req.Workers <= 0 {
		return nil, core.NewValidationError("simulate", fmt.Sprintf("worker count %d must be positive", req.Workers))
	}
	if req.CutoffS <= 0 {
		return nil, core.NewValidationError("simulate", fmt.Sprintf("cutoff %g must be positive", req.CutoffS))
	}
	posGen, err := positionGenerator(req.Vertex)
	if err != nil {
		return nil, err
	}

	deck, err := s.source.Deck(req.Nuclide)
	if err != nil {
		return nil, err
	}

	// Probe build: fail on configuration errors before spawning workers,
	// and resolve the start level against the canonical level order.
	probe, err := decay.NewSystem(deck, s.bindings, req.CutoffS, rand.New(rand.NewSource(req.Seed)))
	if err != nil {
		return nil, err
	}
	startLevel := decay.StartAuto
	if req.StartLevel != "" {
		if startLevel, err = probe.LevelIndex(req.StartLevel); err != nil {
			return nil, err
		}
	}
	slotBlock := 0
	if req.Buffered {
		slotBlock = probe.NDF(startLevel)
		if posGen != nil {
			slotBlock += posGen.NDF()
		}
	}

	rec := run.NewSimulationRun(req.Nuclide, deck.Hash, req.Chains, req.Seed, req.CutoffS, req.Workers)
	// Streams are keyed by the parameter fingerprint, not the run ID, so a
	// replayed request rebuilds identical streams under a fresh ID.
	streamKey := string(rec.Fingerprint())
	started := time.Now()
	log.Printf("[Simulation] run %s: %d chains of %s over %d partitions (seed %d)",
		rec.ID, req.Chains, req.Nuclide, req.Workers, req.Seed)

	parts := splitChains(req.Chains, req.Workers)
	results := make([][]event.Event, len(parts))
	errs := make([]error, len(parts))

	// Partition count fixes the stream; the semaphore only caps how many
	// partitions generate at once.
	maxParallel := s.defaults.Workers
	if maxParallel <= 0 {
		maxParallel = req.Workers
	}
	sem := semaphore.NewWeighted(int64(maxParallel))
	var wg sync.WaitGroup
	var done stdatomic.Int64

	for i, part := range parts {
		wg.Add(1)
		go func(i int, part partition) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return
			}
			defer sem.Release(1)
			results[i], errs[i] = s.generatePartition(ctx, deck, streamKey, part, req, startLevel, slotBlock, posGen, &done)
		}(i, part)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, evs := range results {
		total += len(evs)
	}
	all := make([]event.Event, 0, total)
	for _, evs := range results {
		all = append(all, evs...)
	}

	summary, err := analysis.Summarize(all, req.Bins)
	if err != nil {
		return nil, err
	}
	rec.EventCount = int64(len(all))
	rec.Summary = summary
	rec.RuntimeMS = time.Since(started).Milliseconds()

	if s.runRepo != nil {
		if err := s.runRepo.SaveRun(ctx, rec); err != nil {
			// The simulation itself succeeded; report the record unsaved
			// rather than discarding the events.
			log.Printf("[Simulation] run %s not persisted: %v", rec.ID, err)
		}
	}
	log.Printf("[Simulation] run %s: %d events in %dms", rec.ID, rec.EventCount, rec.RuntimeMS)

	if req.MaxEvents > 0 && len(all) > req.MaxEvents {
		all = all[:req.MaxEvents]
	}
	return &SimulateResult{Run: rec, Events: all}, nil
}

// generatePartition runs one partition's chain range on its own stream and
// decay system.
func (s *SimulationService) generatePartition(ctx context.Context, deck records.Deck, streamKey string, part partition, req SimulateRequest, startLevel, slotBlock int, posGen sampling.PositionGenerator, done *stdatomic.Int64) ([]event.Event, error) {
	stream, err := s.rngPort.WorkerStream(ctx, streamKey, part.worker, req.Seed)
	if err != nil {
		return nil, err
	}
	sys, err := decay.NewSystem(deck, s.bindings, req.CutoffS, stream)
	if err != nil {
		return nil, err
	}

	events := make([]event.Event, 0, part.chains*2)
	slots := make([]float64, slotBlock)
	sinceReport := int64(0)
	for c := int64(0); c < part.chains; c++ {
		var rs *sampling.RandState
		if req.Buffered {
			for i := range slots {
				slots[i] = stream.Float64()
			}
			rs = sampling.NewRandState(slots, stream)
		} else {
			rs = sampling.Live(stream)
		}

		var vertex [3]float64
		if posGen != nil {
			vertex = posGen.GenPos(rs)
		}

		from := len(events)
		events = sys.GenDecayChainFrom(events, rs, startLevel)
		chainID := part.chainStart + c
		for i := from; i < len(events); i++ {
			events[i].ChainID = chainID
			events[i].X = vertex
		}

		sinceReport++
		if sinceReport == progressStep || c == part.chains-1 {
			n := done.Add(sinceReport)
			sinceReport = 0
			if req.Progress != nil {
				req.Progress(n, req.Chains)
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return events, nil
}

// splitChains partitions n chains across w workers, earlier workers taking
// the remainder, and assigns each partition its global chain-id range.
func splitChains(n int64, w int) []partition {
	parts := make([]partition, 0, w)
	base := n / int64(w)
	rem := n % int64(w)
	var start int64
	for i := 0; i < w; i++ {
		count := base
		if int64(i) < rem {
			count++
		}
		if count == 0 {
			continue
		}
		parts = append(parts, partition{worker: i, chainStart: start, chains: count})
		start += count
	}
	return parts
}

// positionGenerator resolves a vertex spec; nil spec means no vertices.
func positionGenerator(spec *VertexSpec) (sampling.PositionGenerator, error) {
	if spec == nil {
		return nil, nil
	}
	switch spec.Kind {
	case "cube":
		side := spec.Side
		if side == 0 {
			side = 1
		}
		if side < 0 {
			return nil, core.NewValidationError("vertex", fmt.Sprintf("cube side %g must be positive", side))
		}
		return scaledCube{side: side}, nil
	case "cylinder":
		if spec.Radius <= 0 || spec.Length <= 0 {
			return nil, core.NewValidationError("vertex", fmt.Sprintf("cylinder %g x %g must have positive dimensions", spec.Radius, spec.Length))
		}
		return sampling.CylPos{R: spec.Radius, DZ: spec.Length}, nil
	default:
		return nil, core.NewValidationError("vertex", fmt.Sprintf("unknown volume kind %q", spec.Kind))
	}
}

// scaledCube centers the unit cube on the origin and scales it to the
// requested edge length.
type scaledCube struct {
	side float64
}

func (c scaledCube) GenPos(rs *sampling.RandState) [3]float64 {
	v := sampling.CubePos{}.GenPos(rs)
	for i := range v {
		v[i] = (v[i] - 0.5) * c.side
	}
	return v
}

func (c scaledCube) NDF() int { return sampling.CubePos{}.NDF() }
