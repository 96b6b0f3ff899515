// Package decaydata loads decay-scheme decks and gamma line lists from the
// on-disk data directory.
package decaydata

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nucgen/domain/core"
	"nucgen/domain/records"
)

// BindingFileName is the binding-energy file kept alongside the deck files
const BindingFileName = "ElectronBindingEnergy.txt"

// ParseDeck parses deck text: one record per line, the class before the
// first colon, then tab-separated "key = value" pairs. Blank lines, '#'
// comments, lines without a colon, and pairs without exactly one '=' are
// skipped. The returned deck is fingerprinted over the raw bytes.
func ParseDeck(data []byte) records.Deck {
	deck := records.Deck{Hash: core.NewDeckHash(data)}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		rec := records.Record{Class: strings.TrimSpace(line[:colon])}
		for _, pair := range strings.Split(line[colon+1:], "\t") {
			kv := strings.Split(pair, "=")
			if len(kv) != 2 {
				continue
			}
			rec.Add(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
		}
		deck.Append(rec)
	}
	return deck
}

// DirSource serves decks from a directory of <nuclide>.txt files
type DirSource struct {
	dir string
}

// NewDirSource creates a source over the given data directory
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Deck reads and parses the named nuclide's deck file
func (s *DirSource) Deck(name string) (records.Deck, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return records.Deck{}, fmt.Errorf("decaydata: invalid nuclide name %q", name)
	}
	path := filepath.Join(s.dir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return records.Deck{}, fmt.Errorf("%w: %q has no deck file", core.ErrNuclideNotFound, name)
		}
		return records.Deck{}, fmt.Errorf("decaydata: read deck %q: %w", name, err)
	}
	return ParseDeck(data), nil
}

// Dir returns the data directory path
func (s *DirSource) Dir() string { return s.dir }

// List returns the nuclide names with a deck file present, sorted. The
// binding-energy file shares the directory and is not a nuclide.
func (s *DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("decaydata: list decks: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") || e.Name() == BindingFileName {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	return names, nil
}
