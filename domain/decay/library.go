package decay

import (
	"fmt"

	"nucgen/domain/atomic"
	"nucgen/domain/records"
	"nucgen/domain/sampling"
)

// DeckSource provides parsed decay-scheme decks by nuclide name. Adapters
// implement it over whatever storage holds the data files.
type DeckSource interface {
	Deck(name string) (records.Deck, error)
}

// Library caches constructed decay systems by nuclide name, building each
// one on first request from its deck source. A failed construction is
// remembered and returned on every re-ask instead of being retried.
// Single-threaded use; concurrent simulation builds one independent system
// per worker rather than sharing library entries.
type Library struct {
	source   DeckSource
	bindings *atomic.Library
	tcut     float64
	src      sampling.Source
	systems  map[string]*System
	failures map[string]error
}

// NewLibrary wires a deck source and binding-energy library into a system
// cache. tcut and src seed every constructed system.
func NewLibrary(source DeckSource, bindings *atomic.Library, tcut float64, src sampling.Source) *Library {
	return &Library{
		source:   source,
		bindings: bindings,
		tcut:     tcut,
		src:      src,
		systems:  make(map[string]*System),
		failures: make(map[string]error),
	}
}

// Generator returns the decay system for a nuclide, constructing and caching
// it on the first request.
func (l *Library) Generator(name string) (*System, error) {
	if sys, ok := l.systems[name]; ok {
		return sys, nil
	}
	if err, ok := l.failures[name]; ok {
		return nil, err
	}
	sys, err := l.build(name)
	if err != nil {
		l.failures[name] = err
		return nil, err
	}
	l.systems[name] = sys
	return sys, nil
}

func (l *Library) build(name string) (*System, error) {
	deck, err := l.source.Deck(name)
	if err != nil {
		return nil, fmt.Errorf("decay library %q: %w", name, err)
	}
	sys, err := NewSystem(deck, l.bindings, l.tcut, l.src)
	if err != nil {
		return nil, fmt.Errorf("decay library %q: %w", name, err)
	}
	return sys, nil
}

// HasGenerator reports whether a system for the nuclide is or can be built
func (l *Library) HasGenerator(name string) bool {
	_, err := l.Generator(name)
	return err == nil
}

// Cutoff returns the half-life cutoff handed to constructed systems
func (l *Library) Cutoff() float64 { return l.tcut }
