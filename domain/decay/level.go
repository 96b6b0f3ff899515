// Package decay models a nuclide's excited-level structure as a weighted
// directed graph and samples decay chains from it, event by event.
package decay

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"nucgen/domain/core"
	"nucgen/domain/records"
)

// Level is one node of the decay graph. Identity is the composite name
// "A.Z.n"; N is the dense index assigned after energy sorting. Flux fields
// accumulate the intensities of registered transitions.
type Level struct {
	Name    string  `json:"name"`
	A       int     `json:"a"`
	Z       int     `json:"z"`
	N       int     `json:"n"`
	E       float64 `json:"energy_kev"`
	HL      float64 `json:"half_life_s"`
	JPi     string  `json:"jpi"`
	FluxIn  float64 `json:"flux_in"`
	FluxOut float64 `json:"flux_out"`
}

// levelFromRecord parses one "level" record. A negative half-life marks a
// stable level and is stored as +Inf.
func levelFromRecord(r records.Record) (Level, error) {
	l := Level{Name: r.GetDefault("nm", "")}
	parts := strings.Split(l.Name, ".")
	if len(parts) != 3 {
		return l, core.NewRecordError(r.Class, "nm", fmt.Sprintf("name %q is not A.Z.n", l.Name))
	}
	var err error
	if l.A, err = strconv.Atoi(parts[0]); err != nil {
		return l, core.NewRecordError(r.Class, "nm", fmt.Sprintf("mass number %q", parts[0]))
	}
	if l.Z, err = strconv.Atoi(parts[1]); err != nil {
		return l, core.NewRecordError(r.Class, "nm", fmt.Sprintf("atomic number %q", parts[1]))
	}
	if l.N, err = strconv.Atoi(parts[2]); err != nil {
		return l, core.NewRecordError(r.Class, "nm", fmt.Sprintf("level index %q", parts[2]))
	}
	if l.E, err = r.FloatDefault("E", 0); err != nil {
		return l, err
	}
	if l.HL, err = r.FloatDefault("hl", 0); err != nil {
		return l, err
	}
	if l.HL < 0 {
		l.HL = math.Inf(1)
	}
	l.JPi = r.GetDefault("jpi", "")
	return l, nil
}

func (l *Level) scale(s float64) {
	l.FluxIn *= s
	l.FluxOut *= s
}
