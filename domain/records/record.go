// Package records models the parsed form of decay-scheme data files: ordered
// key/value records grouped by class. This is the only input shape the
// generator consumes; file parsing lives in adapters.
package records

import (
	"fmt"
	"strconv"
	"strings"

	"nucgen/domain/core"
)

// Field is one named string value inside a record.
type Field struct {
	Key   string
	Value string
}

// Record is a named record: an ordered list of key/value fields. Keys may
// repeat; lookups return the first occurrence in file order.
type Record struct {
	Class  string
	Fields []Field
}

// New builds a record from alternating key, value pairs
func New(class string, kv ...string) Record {
	if len(kv)%2 != 0 {
		panic("records: New requires key/value pairs")
	}
	r := Record{Class: class}
	for i := 0; i < len(kv); i += 2 {
		r.Add(kv[i], kv[i+1])
	}
	return r
}

// Add appends a field, preserving insertion order
func (r *Record) Add(key, value string) {
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Has reports whether any field with the given key exists
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Get returns the first value for key
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// GetDefault returns the first value for key, or def when absent
func (r Record) GetDefault(key, def string) string {
	if v, ok := r.Get(key); ok {
		return v
	}
	return def
}

// All returns every value recorded under key, in order
func (r Record) All(key string) []string {
	var vs []string
	for _, f := range r.Fields {
		if f.Key == key {
			vs = append(vs, f.Value)
		}
	}
	return vs
}

// FloatDefault returns the first value for key parsed as float64, def when the
// key is absent, and an error when the value does not parse.
func (r Record) FloatDefault(key string, def float64) (float64, error) {
	s, ok := r.Get(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, core.NewRecordError(r.Class, key, fmt.Sprintf("%q is not a number", s))
	}
	return v, nil
}

// IntDefault returns the first value for key parsed as int, def when absent,
// and an error when the value does not parse.
func (r Record) IntDefault(key string, def int) (int, error) {
	s, ok := r.Get(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, core.NewRecordError(r.Class, key, fmt.Sprintf("%q is not an integer", s))
	}
	return v, nil
}

// String renders the record in deck line form
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Class)
	b.WriteString(":")
	for _, f := range r.Fields {
		b.WriteString("\t")
		b.WriteString(f.Key)
		b.WriteString(" = ")
		b.WriteString(f.Value)
	}
	return b.String()
}

// ValueErr is a measured value with a one-sigma uncertainty, written "x~err"
// in deck files. A bare number carries zero uncertainty.
type ValueErr struct {
	X   float64
	Err float64
}

// ParseValueErr parses "x" or "x~err"
func ParseValueErr(s string) (ValueErr, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "~", 2)
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return ValueErr{}, fmt.Errorf("%w: value %q", core.ErrMalformedRecord, s)
	}
	ve := ValueErr{X: x}
	if len(parts) == 2 {
		ve.Err, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return ValueErr{}, fmt.Errorf("%w: uncertainty %q", core.ErrMalformedRecord, s)
		}
	}
	return ve, nil
}

// SplitFloats parses a separator-delimited list of numbers, skipping empty
// entries the way deck files allow trailing separators.
func SplitFloats(s, sep string) ([]float64, error) {
	var vs []float64
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: list entry %q", core.ErrMalformedRecord, part)
		}
		vs = append(vs, v)
	}
	return vs, nil
}
