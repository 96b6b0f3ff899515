// Package testkit provides canned decay schemes, binding energies, and
// in-memory port fakes for service, API, and command tests.
package testkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nucgen/adapters/decaydata"
	"nucgen/adapters/rng"
	"nucgen/domain/atomic"
	"nucgen/domain/core"
	"nucgen/domain/decay"
	"nucgen/domain/records"
	"nucgen/domain/run"
	"nucgen/domain/sampling"
	"nucgen/ports"
)

// Deck fixtures in the same text format the data directory holds. Parsing
// them through the real loader keeps the fixtures and the parser honest
// with each other. Energies and intensities follow the published schemes
// closely enough for realistic spectra.
const (
	// CascadeDeckText is a pure two-step gamma cascade from an isomer.
	CascadeDeckText = "# 114mIn isomeric cascade\n" +
		"fileinfo:\tfancyname = ^{114m}In\n" +
		"level:\tnm = 114.49.0\tE = 0\thl = -1\tjpi = 1+\n" +
		"level:\tnm = 114.49.1\tE = 190.27\thl = 2.5e-9\tjpi = 5+\n" +
		"level:\tnm = 114.49.2\tE = 501.94\thl = 4.28e6\tjpi = 8-\n" +
		"gamma:\tfrom = 114.49.2\tto = 114.49.1\tIgamma = 100\n" +
		"gamma:\tfrom = 114.49.1\tto = 114.49.0\tIgamma = 100\n"

	// ConversionDeckText feeds a strongly converted gamma from a beta decay,
	// with K-vacancy relaxation data for the daughter.
	ConversionDeckText = "# 113mCd beta decay through the 113In conversion line\n" +
		"fileinfo:\tfancyname = ^{113m}Cd\n" +
		"norm:\tgamma = groundstate\n" +
		"level:\tnm = 113.49.0\tE = 0\thl = -1\tjpi = 9/2+\n" +
		"level:\tnm = 113.49.1\tE = 391.7\thl = 5976\tjpi = 1/2-\n" +
		"level:\tnm = 113.48.1\tE = 655.3\thl = 4.49e8\tjpi = 11/2-\n" +
		"gamma:\tfrom = 113.49.1\tto = 113.49.0\tIgamma = 64.97\tCE_K = 0.438~0.005\tCE_L = 0.0715~0.0008@3.22:1.18:1\tCE_M = 0.0145\n" +
		"AugerK:\tZ = 49\taKLL = 2.46\taKLX = 1.06\taKXY = 0.14\tkKa2 = 24.0\tkKa1 = 45.0\tkKb = 14.9\tIauger = 3.66\n" +
		"beta:\tfrom = 113.48.1\tto = 113.49.1\tI = 100\tforbidden = 2\n"

	// ECaptureDeckText decays by electron capture with AUTO daughter
	// resolution and Auger relaxation on the captured shell.
	ECaptureDeckText = "# 109In electron capture\n" +
		"fileinfo:\tfancyname = ^{109}In\n" +
		"level:\tnm = 109.48.0\tE = 0\thl = -1\tjpi = 5/2+\n" +
		"level:\tnm = 109.48.1\tE = 88.03\thl = 39.8\tjpi = 7/2+\n" +
		"level:\tnm = 109.49.0\tE = 2014.6\thl = 1.5e4\tjpi = 9/2+\n" +
		"gamma:\tfrom = 109.48.1\tto = 109.48.0\tIgamma = 3.7\tCE_K = 11.0\n" +
		"AugerK:\tZ = 48\taKLL = 2.9\tkKa1 = 38.0\tkKa2 = 20.1\tIauger = 4.1\n" +
		"ecapt:\tfrom = 109.49.0\tto = AUTO\n"

	// BindingDeckText covers the two elements the canned schemes touch.
	BindingDeckText = "# Electron binding energies, keV\n" +
		"binding:\tZ = 48\telt = Cd\tK = 26.7112\tL = 4.018:3.727:3.538\tM = 0.7723:0.6524:0.6165\n" +
		"binding:\tZ = 49\telt = In\tK = 27.9399\tL = 4.2375:3.938:3.7301\tM = 0.8256:0.7022:0.6643\n"
)

// CannedDecks maps nuclide name to deck text for every canned scheme.
var CannedDecks = map[string]string{
	"In114m": CascadeDeckText,
	"Cd113m": ConversionDeckText,
	"In109":  ECaptureDeckText,
}

// Kit bundles the canned fixtures behind the same interfaces the real
// adapters implement.
type Kit struct {
	source   *MapSource
	bindings *atomic.Library
	runs     *MemRunRepository
}

// NewKit parses the canned decks and bindings into a ready-to-use kit.
func NewKit() (*Kit, error) {
	source := NewMapSource()
	for name, text := range CannedDecks {
		source.Put(name, decaydata.ParseDeck([]byte(text)))
	}

	bindings := atomic.NewLibrary()
	deck := decaydata.ParseDeck([]byte(BindingDeckText))
	for _, rec := range deck.Class("binding") {
		table, err := atomic.TableFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("testkit bindings: %w", err)
		}
		bindings.Add(table)
	}

	return &Kit{
		source:   source,
		bindings: bindings,
		runs:     NewMemRunRepository(),
	}, nil
}

// DeckSource returns the canned deck source. Tests may Put additional decks.
func (k *Kit) DeckSource() *MapSource { return k.source }

// Bindings returns the binding-energy library for the canned elements.
func (k *Kit) Bindings() *atomic.Library { return k.bindings }

// Library builds a decay-system cache over the canned fixtures.
func (k *Kit) Library(tcut float64, src sampling.Source) *decay.Library {
	return decay.NewLibrary(k.source, k.bindings, tcut, src)
}

// RunRepository returns the shared in-memory run store.
func (k *Kit) RunRepository() *MemRunRepository { return k.runs }

// RNG returns the real deterministic stream adapter; it has no external
// dependencies, so tests use it directly.
func (k *Kit) RNG() ports.RNGPort { return rng.New() }

// WriteDataDir writes the canned decks and binding file into dir in the
// on-disk layout the directory source expects. Commands and handlers that
// read real files point their data directory here.
func (k *Kit) WriteDataDir(dir string) error {
	for name, text := range CannedDecks {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("testkit data dir: %w", err)
		}
	}
	path := filepath.Join(dir, decaydata.BindingFileName)
	if err := os.WriteFile(path, []byte(BindingDeckText), 0o644); err != nil {
		return fmt.Errorf("testkit data dir: %w", err)
	}
	return nil
}

// MapSource is an in-memory deck source.
type MapSource struct {
	decks map[string]records.Deck
}

// NewMapSource returns an empty map source.
func NewMapSource() *MapSource {
	return &MapSource{decks: make(map[string]records.Deck)}
}

// Put registers a deck under a nuclide name, replacing any previous entry.
func (m *MapSource) Put(name string, d records.Deck) { m.decks[name] = d }

// Deck returns the deck registered under name.
func (m *MapSource) Deck(name string) (records.Deck, error) {
	d, ok := m.decks[name]
	if !ok {
		return records.Deck{}, fmt.Errorf("%w: no deck for %q", core.ErrNuclideNotFound, name)
	}
	return d, nil
}

// List returns the registered nuclide names, sorted.
func (m *MapSource) List() ([]string, error) {
	names := make([]string, 0, len(m.decks))
	for name := range m.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// FixedSource replays a scripted sequence of uniform values, wrapping
// around when the script runs out. Zero values make a degenerate but legal
// source that always returns 0.
type FixedSource struct {
	vals []float64
	next int
}

// NewFixedSource scripts the given values in order.
func NewFixedSource(vals ...float64) *FixedSource {
	return &FixedSource{vals: vals}
}

// Float64 returns the next scripted value.
func (f *FixedSource) Float64() float64 {
	if len(f.vals) == 0 {
		return 0
	}
	v := f.vals[f.next%len(f.vals)]
	f.next++
	return v
}

// MemRunRepository implements the run repository over a mutex-guarded map.
type MemRunRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*run.SimulationRun
}

var _ ports.RunRepository = (*MemRunRepository)(nil)

// NewMemRunRepository returns an empty in-memory store.
func NewMemRunRepository() *MemRunRepository {
	return &MemRunRepository{runs: make(map[core.RunID]*run.SimulationRun)}
}

// SaveRun validates and stores a copy of the record.
func (m *MemRunRepository) SaveRun(ctx context.Context, rec *run.SimulationRun) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.runs[rec.ID] = &cp
	return nil
}

// GetRun returns the stored record for id.
func (m *MemRunRepository) GetRun(ctx context.Context, id core.RunID) (*run.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	cp := *rec
	return &cp, nil
}

// ListRuns returns stored records newest first, honoring the filters.
func (m *MemRunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*run.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var recs []*run.SimulationRun
	for _, rec := range m.runs {
		if filters.Nuclide != "" && rec.Nuclide != filters.Nuclide {
			continue
		}
		cp := *rec
		recs = append(recs, &cp)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })

	if filters.Offset > 0 {
		if filters.Offset >= len(recs) {
			return nil, nil
		}
		recs = recs[filters.Offset:]
	}
	if filters.Limit > 0 && len(recs) > filters.Limit {
		recs = recs[:filters.Limit]
	}
	return recs, nil
}

// Len reports how many runs are stored.
func (m *MemRunRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
