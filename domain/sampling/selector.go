// Package sampling provides the weighted discrete selection and random-state
// plumbing every stochastic choice in the decay generator goes through.
package sampling

import (
	"fmt"
	"sort"
)

// Selector is a discrete distribution sampled by exact cumulative weights.
// The cumulative sequence always starts at zero. Zero-width bins are legal;
// the upper-bound search can never land on one.
type Selector struct {
	cum []float64
}

// NewSelector builds a selector from initial bin weights
func NewSelector(weights ...float64) Selector {
	var s Selector
	for _, w := range weights {
		s.AddProb(w)
	}
	return s
}

// AddProb appends a bin of weight w to the distribution
func (s *Selector) AddProb(w float64) {
	if !(w >= 0) {
		panic(fmt.Sprintf("sampling: bin weight %g must be non-negative", w))
	}
	if len(s.cum) == 0 {
		s.cum = append(s.cum, 0)
	}
	s.cum = append(s.cum, s.cum[len(s.cum)-1]+w)
}

// Select picks a bin. When x is non-nil it must lie in [0,1); it is scaled by
// the total weight, the containing bin is located, and *x is rewritten to its
// renormalized position inside that bin so nested selections can reuse the
// same slot. When x is nil one value is drawn from src and the residual is
// discarded. Selecting with zero total weight is a precondition violation.
func (s *Selector) Select(x *float64, src Source) int {
	total := s.Total()
	if !(total > 0) {
		panic("sampling: select from selector with zero total weight")
	}
	var v float64
	if x == nil {
		v = src.Float64() * total
	} else {
		if !(0 <= *x && *x < 1) {
			panic(fmt.Sprintf("sampling: select value %g outside [0,1)", *x))
		}
		v = *x * total
	}
	// upper bound: first cumulative weight strictly above v
	sel := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > v }) - 1
	if sel < 0 || sel >= len(s.cum)-1 {
		panic(fmt.Sprintf("sampling: select value %g outside cumulative range %g", v, total))
	}
	if x != nil {
		*x = (v - s.cum[sel]) / (s.cum[sel+1] - s.cum[sel])
	}
	return sel
}

// Prob returns the normalized probability mass of bin n
func (s *Selector) Prob(n int) float64 {
	if n < 0 || n >= len(s.cum)-1 {
		panic(fmt.Sprintf("sampling: bin %d out of range %d", n, len(s.cum)-1))
	}
	return (s.cum[n+1] - s.cum[n]) / s.cum[len(s.cum)-1]
}

// Scale multiplies every bin weight by s2
func (s *Selector) Scale(s2 float64) {
	for i := range s.cum {
		s.cum[i] *= s2
	}
}

// Total returns the cumulative weight over all bins
func (s *Selector) Total() float64 {
	if len(s.cum) == 0 {
		return 0
	}
	return s.cum[len(s.cum)-1]
}

// Len returns the number of bins
func (s *Selector) Len() int {
	if len(s.cum) == 0 {
		return 0
	}
	return len(s.cum) - 1
}
