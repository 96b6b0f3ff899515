package run

import (
	"database/sql/driver"
	"encoding/json"
)

// ParticleSummary aggregates one particle species across a run's events.
// Energies are keV.
type ParticleSummary struct {
	Type      string  `json:"type"`
	Count     int64   `json:"count"`
	MeanKeV   float64 `json:"mean_kev"`
	MedianKeV float64 `json:"median_kev"`
	MinKeV    float64 `json:"min_kev"`
	MaxKeV    float64 `json:"max_kev"`
	Q1KeV     float64 `json:"q1_kev"`
	Q3KeV     float64 `json:"q3_kev"`
	TotalKeV  float64 `json:"total_kev"`
}

// Histogram is a binned energy distribution: len(Dividers) == len(Counts)+1
type Histogram struct {
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// Summary is the analysis payload persisted alongside a run. It is stored
// as a single JSONB column.
type Summary struct {
	Particles []ParticleSummary `json:"particles"`
	Histogram *Histogram        `json:"histogram,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (s Summary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *Summary) Scan(value interface{}) error {
	if value == nil {
		*s = Summary{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = Summary{}
		return nil
	}

	if len(bytes) == 0 {
		*s = Summary{}
		return nil
	}

	var result Summary
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*s = result
	return nil
}

// Particle returns the summary for one species, nil when absent
func (s *Summary) Particle(typ string) *ParticleSummary {
	for i := range s.Particles {
		if s.Particles[i].Type == typ {
			return &s.Particles[i]
		}
	}
	return nil
}
