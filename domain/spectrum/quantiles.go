package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"nucgen/domain/core"
)

// GridPoints is the default tabulation density for inverse-CDF sampling.
const GridPoints = 1000

// Quantiles is a tabulated inverse CDF over [0, ep]: Eval maps a uniform
// [0,1) value to an energy distributed according to the source density.
type Quantiles struct {
	inv interp.PiecewiseLinear
	ep  float64
}

// NewQuantiles integrates the density f over [0, ep] on a uniform n-point
// grid by trapezoid rule and fits the inverse of the normalized CDF. A
// density with no probability mass on the interval is an error.
func NewQuantiles(f func(float64) float64, ep float64, n int) (*Quantiles, error) {
	if !(ep > 0) {
		return nil, fmt.Errorf("%w: %g keV", core.ErrBadEndpoint, ep)
	}
	if n < 2 {
		n = 2
	}

	xs := make([]float64, n+1)
	cdf := make([]float64, n+1)
	prev := f(0)
	for i := 1; i <= n; i++ {
		xs[i] = ep * float64(i) / float64(n)
		cur := f(xs[i])
		cdf[i] = cdf[i-1] + 0.5*(prev+cur)*(xs[i]-xs[i-1])
		prev = cur
	}
	total := cdf[n]
	if !(total > 0) {
		return nil, fmt.Errorf("%w: integral %g over [0, %g]", core.ErrDegenerateSpectrum, total, ep)
	}
	floats.Scale(1/total, cdf)

	// drop zero-mass plateaus so the CDF is strictly increasing for the fit
	us := make([]float64, 1, n+1)
	es := make([]float64, 1, n+1)
	for i := 1; i <= n; i++ {
		if cdf[i] > us[len(us)-1] {
			us = append(us, cdf[i])
			es = append(es, xs[i])
		}
	}

	q := &Quantiles{ep: ep}
	if err := q.inv.Fit(us, es); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDegenerateSpectrum, err)
	}
	return q, nil
}

// Eval returns the energy at quantile u; values outside [0,1] clamp to the
// spectrum's support.
func (q *Quantiles) Eval(u float64) float64 {
	return q.inv.Predict(u)
}

// Endpoint returns the upper edge of the tabulated support
func (q *Quantiles) Endpoint() float64 { return q.ep }
