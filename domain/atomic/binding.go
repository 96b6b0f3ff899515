// Package atomic provides per-element electron shell binding energies, the
// data behind conversion-electron energies and Auger emission.
package atomic

import (
	"fmt"
	"sort"

	"nucgen/domain/core"
	"nucgen/domain/records"
)

// ShellNames are the shell letters in index order: shell 0 is K.
const ShellNames = "KLMNOPQ"

// BindingTable holds one element's subshell binding energies in keV.
type BindingTable struct {
	z      int
	name   string
	shells [][]float64
}

// NewBindingTable assembles a table from per-shell subshell energies
func NewBindingTable(z int, name string, shells [][]float64) *BindingTable {
	return &BindingTable{z: z, name: name, shells: shells}
}

// TableFromRecord builds a table from a "binding" record: Z, elt, and one
// field per shell letter holding a colon-separated subshell energy list.
// Shell fields are read in K, L, M... order and stop at the first letter
// absent from the record.
func TableFromRecord(r records.Record) (*BindingTable, error) {
	z, err := r.IntDefault("Z", 0)
	if err != nil {
		return nil, err
	}
	if z <= 0 {
		return nil, core.NewRecordError(r.Class, "Z", fmt.Sprintf("invalid atomic number %d", z))
	}
	t := &BindingTable{z: z, name: r.GetDefault("elt", "")}
	for _, letter := range ShellNames {
		field, ok := r.Get(string(letter))
		if !ok {
			break
		}
		es, err := records.SplitFloats(field, ":")
		if err != nil {
			return nil, core.NewRecordError(r.Class, string(letter), err.Error())
		}
		t.shells = append(t.shells, es)
	}
	return t, nil
}

// Z returns the atomic number
func (t *BindingTable) Z() int { return t.z }

// Name returns the element symbol
func (t *BindingTable) Name() string { return t.name }

// Shells returns the number of loaded shells
func (t *BindingTable) Shells() int { return len(t.shells) }

// Subshells returns the number of subshells in a shell, 0 when out of range
func (t *BindingTable) Subshells(shell int) int {
	if shell < 0 || shell >= len(t.shells) {
		return 0
	}
	return len(t.shells[shell])
}

// SubshellBinding returns the binding energy in keV for the given shell and
// subshell indices. A miss is a configuration error, never a silent default.
func (t *BindingTable) SubshellBinding(shell, subshell int) (float64, error) {
	if shell < 0 || shell >= len(t.shells) || subshell < 0 || subshell >= len(t.shells[shell]) {
		return 0, core.NewBindingError(t.z, shell, subshell)
	}
	return t.shells[shell][subshell], nil
}

// Library is the keyed collection of binding tables for every element a
// decay scheme can touch.
type Library struct {
	tables map[int]*BindingTable
}

// NewLibrary returns an empty library
func NewLibrary() *Library {
	return &Library{tables: make(map[int]*BindingTable)}
}

// Add registers a table, replacing any previous entry for the same element
func (l *Library) Add(t *BindingTable) {
	l.tables[t.Z()] = t
}

// Table returns the binding table for atomic number z
func (l *Library) Table(z int) (*BindingTable, error) {
	t, ok := l.tables[z]
	if !ok {
		return nil, fmt.Errorf("%w: Z=%d", core.ErrUnknownElement, z)
	}
	return t, nil
}

// Elements lists the loaded atomic numbers in ascending order
func (l *Library) Elements() []int {
	zs := make([]int, 0, len(l.tables))
	for z := range l.tables {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	return zs
}
