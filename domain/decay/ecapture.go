package decay

import (
	"nucgen/domain/event"
	"nucgen/domain/sampling"
)

// ECaptureTransition is an electron capture into a daughter level. It emits
// no particle itself; its only observable effect is whether the capture left
// a K-shell vacancy for the daughter atom's relaxation to resolve.
type ECaptureTransition struct {
	TransitionBase
	atom *Atom
}

// Fire decides the K vacancy by a Bernoulli test of the daughter atom's
// missing capture fraction against the chained slot value, so a supplied
// slot buffer fully determines the outcome.
func (t *ECaptureTransition) Fire(dst *[]event.Event, rs *sampling.RandState) int {
	if rs.ChainValue() < t.atom.IMissing {
		return 1
	}
	return 0
}

// PVacant returns the missing capture fraction for the K shell
func (t *ECaptureTransition) PVacant(shell int) float64 {
	if shell == 0 {
		return t.atom.IMissing
	}
	return 0
}

// Kind returns the variant name
func (t *ECaptureTransition) Kind() string { return "ecapture" }
