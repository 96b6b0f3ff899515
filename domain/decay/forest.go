package decay

import (
	"fmt"

	"nucgen/domain/event"
	"nucgen/domain/sampling"
)

// GammaForest is a flat weighted list of gamma lines with no level
// structure: each line carries an energy and a cross section acting as its
// emission weight. Used for calibration sources and activation spectra where
// only the photon list is known.
type GammaForest struct {
	energies []float64
	prob     sampling.Selector
}

// NewGammaForest returns an empty forest
func NewGammaForest() *GammaForest {
	return &GammaForest{}
}

// AddLine registers one gamma line. Energy is keV; the cross section weights
// the line's share of emissions.
func (f *GammaForest) AddLine(e, crossSection float64) error {
	if !(e > 0) {
		return fmt.Errorf("decay: gamma line energy %g keV must be positive", e)
	}
	if crossSection < 0 {
		return fmt.Errorf("decay: gamma line cross section %g must be non-negative", crossSection)
	}
	f.energies = append(f.energies, e)
	f.prob.AddProb(crossSection)
	return nil
}

// GenDecays appends gamma events until the expected count n is spent: the
// integer part emits deterministically, the fractional remainder by one
// Bernoulli draw. Line choice and direction draw live from src.
func (f *GammaForest) GenDecays(dst []event.Event, n float64, src sampling.Source) []event.Event {
	for n >= 1 || (n > 0 && src.Float64() < n) {
		evt := event.Event{
			Type: event.Gamma,
			E:    f.energies[f.prob.Select(nil, src)],
			W:    1,
		}
		evt.P = sampling.IsotropicDirection(src.Float64(), src.Float64())
		dst = append(dst, evt)
		n--
	}
	return dst
}

// Len returns the number of loaded lines
func (f *GammaForest) Len() int { return len(f.energies) }

// TotalCrossSection returns the summed line weights
func (f *GammaForest) TotalCrossSection() float64 { return f.prob.Total() }

// Energy returns line i's energy in keV
func (f *GammaForest) Energy(i int) float64 { return f.energies[i] }

// Prob returns line i's normalized emission probability
func (f *GammaForest) Prob(i int) float64 { return f.prob.Prob(i) }
