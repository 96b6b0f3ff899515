// Package event defines the emitted-particle record, the sole externally
// visible output of decay chain generation.
package event

import "encoding/json"

// Type tags the particle species of an emitted event.
type Type int

const (
	None Type = iota
	Gamma
	Electron
	Positron
	Neutrino
)

// String returns the short particle name
func (t Type) String() string {
	switch t {
	case Gamma:
		return "gamma"
	case Electron:
		return "e-"
	case Positron:
		return "e+"
	case Neutrino:
		return "neutrino"
	}
	return "UNKNOWN"
}

// ParseType maps a short particle name back to its tag; unknown names map to None
func ParseType(s string) Type {
	switch s {
	case "gamma":
		return Gamma
	case "e-":
		return Electron
	case "e+":
		return Positron
	case "neutrino":
		return Neutrino
	}
	return None
}

// MarshalJSON renders the type as its particle name
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses a particle name
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseType(s)
	return nil
}

// Event is one emitted particle: kinetic energy in keV, an isotropic unit
// direction, a vertex position, and time/weight tags. ChainID groups the
// events of one simulated decay chain.
type Event struct {
	ChainID int64      `json:"chain_id"`
	Type    Type       `json:"type"`
	E       float64    `json:"energy_kev"`
	T       float64    `json:"time_s"`
	W       float64    `json:"weight"`
	X       [3]float64 `json:"vertex"`
	P       [3]float64 `json:"direction"`
}
