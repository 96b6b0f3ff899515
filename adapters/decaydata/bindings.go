package decaydata

import (
	"fmt"
	"os"

	"nucgen/domain/atomic"
)

// LoadBindings reads an electron binding-energy file: one "binding" record
// per element with Z, elt, and colon-separated subshell energies per shell
// letter. Every element a decay scheme references must be present.
func LoadBindings(path string) (*atomic.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decaydata: read binding energies: %w", err)
	}
	deck := ParseDeck(data)
	recs := deck.Class("binding")
	if len(recs) == 0 {
		return nil, fmt.Errorf("decaydata: %s holds no binding records", path)
	}

	lib := atomic.NewLibrary()
	for _, rec := range recs {
		table, err := atomic.TableFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decaydata: binding energies: %w", err)
		}
		lib.Add(table)
	}
	return lib, nil
}
