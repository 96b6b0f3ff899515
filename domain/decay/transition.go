package decay

import (
	"nucgen/domain/event"
	"nucgen/domain/sampling"
)

// Transition is a directed edge of the decay graph. The variant set is
// closed: gamma/internal-conversion, beta, and electron capture.
type Transition interface {
	// Base exposes the shared endpoint and intensity state.
	Base() *TransitionBase
	// Fire emits the transition's particles onto dst and reports how many
	// K-shell vacancies the firing produced. The random state's current
	// window supplies all randomness: the chained slot-0 residual drives
	// nested selections and the polar angle, slot 1 the azimuth, slot 2 a
	// beta energy. Firing never fails.
	Fire(dst *[]event.Event, rs *sampling.RandState) int
	// NDF is the fixed number of random slots one firing consumes.
	NDF() int
	// PVacant is the probability that a firing vacates the given shell.
	PVacant(shell int) float64
	// Scale rescales the transition's intensity by s.
	Scale(s float64)
	// Kind names the variant for reports.
	Kind() string

	sealed()
}

// TransitionBase carries the state common to all variants: origin and
// destination level indices and the total branching intensity.
type TransitionBase struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Itotal float64 `json:"intensity"`
}

// Base returns the shared transition state
func (b *TransitionBase) Base() *TransitionBase { return b }

// NDF defaults to two slots: polar cosine and azimuth
func (b *TransitionBase) NDF() int { return 2 }

// PVacant defaults to zero for every shell
func (b *TransitionBase) PVacant(int) float64 { return 0 }

// Scale rescales the branching intensity
func (b *TransitionBase) Scale(s float64) { b.Itotal *= s }

func (b *TransitionBase) sealed() {}
