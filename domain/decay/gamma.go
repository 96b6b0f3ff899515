package decay

import (
	"fmt"
	"math"
	"strings"

	"nucgen/domain/atomic"
	"nucgen/domain/core"
	"nucgen/domain/event"
	"nucgen/domain/records"
	"nucgen/domain/sampling"
)

// GammaConversionTransition is a gamma emission competing with internal
// conversion. The shell selector carries one bin per conversion shell plus a
// trailing photon bin; each conversion shell carries its own subshell
// selector. Conversion-electron energies are precomputed at build time so a
// missing binding entry fails construction, never a chain.
type GammaConversionTransition struct {
	TransitionBase
	Egamma float64 `json:"e_gamma_kev"`
	Igamma float64 `json:"i_gamma"`

	shells      sampling.Selector
	subshells   []sampling.Selector
	shellUncert []float64
	ceEnergy    [][]float64
}

// newGammaConversion parses a "gamma" record. Shell fields CE_<letter> hold
// "<coefficient>[~<uncertainty>][@<subshell-ratio-list>]" relative to the
// photon branch; loading stops at the first absent shell letter. Igamma is
// the photon branching in percent; the total intensity is the photon branch
// plus every conversion branch.
func newGammaConversion(from, to *Level, table *atomic.BindingTable, r records.Record) (*GammaConversionTransition, error) {
	t := &GammaConversionTransition{
		TransitionBase: TransitionBase{From: from.N, To: to.N},
		Egamma:         from.E - to.E,
	}
	if t.Egamma <= 0 {
		return nil, core.NewTransitionError("gamma", from.Name, to.Name, fmt.Sprintf("non-positive energy %g keV", t.Egamma))
	}
	ig, err := r.FloatDefault("Igamma", 0)
	if err != nil {
		return nil, err
	}
	if ig < 0 {
		return nil, core.NewRecordError(r.Class, "Igamma", fmt.Sprintf("negative intensity %g", ig))
	}
	t.Igamma = ig / 100

	for _, letter := range atomic.ShellNames {
		field, ok := r.Get("CE_" + string(letter))
		if !ok || strings.TrimSpace(field) == "" {
			break
		}
		key := "CE_" + string(letter)
		parts := strings.SplitN(field, "@", 2)
		coeff, err := records.ParseValueErr(parts[0])
		if err != nil {
			return nil, core.NewRecordError(r.Class, key, err.Error())
		}
		if coeff.X < 0 {
			return nil, core.NewRecordError(r.Class, key, fmt.Sprintf("negative coefficient %g", coeff.X))
		}

		ratios := []float64{1}
		if len(parts) == 2 {
			if ratios, err = records.SplitFloats(parts[1], ":"); err != nil {
				return nil, core.NewRecordError(r.Class, key, err.Error())
			}
			if len(ratios) == 0 {
				return nil, core.NewRecordError(r.Class, key, "empty subshell ratio list")
			}
		}

		shell := len(t.subshells)
		var sub sampling.Selector
		energies := make([]float64, len(ratios))
		for i, ratio := range ratios {
			if ratio < 0 {
				return nil, core.NewRecordError(r.Class, key, fmt.Sprintf("negative subshell ratio %g", ratio))
			}
			sub.AddProb(ratio)
			// a missing binding entry only fails construction when the
			// subshell is actually reachable
			b, berr := table.SubshellBinding(shell, i)
			if berr != nil {
				if coeff.X > 0 && ratio > 0 {
					return nil, berr
				}
				energies[i] = math.NaN()
				continue
			}
			energies[i] = t.Egamma - b
		}

		t.shells.AddProb(coeff.X)
		t.shellUncert = append(t.shellUncert, coeff.Err*t.Igamma)
		t.subshells = append(t.subshells, sub)
		t.ceEnergy = append(t.ceEnergy, energies)
	}

	// the remaining probability is the bare photon
	t.shells.AddProb(1)
	t.shells.Scale(t.Igamma)
	t.Itotal = t.shells.Total()
	return t, nil
}

// Fire samples photon-vs-shell and, for a conversion, the subshell, then
// emits one particle with an isotropic direction. Returns 1 when the K shell
// was vacated.
func (t *GammaConversionTransition) Fire(dst *[]event.Event, rs *sampling.RandState) int {
	x := rs.Chain()
	shell := t.shells.Select(x, rs.Src())
	subshell := -1
	if shell < len(t.subshells) {
		subshell = t.subshells[shell].Select(x, rs.Src())
	} else {
		shell = -1
	}

	evt := event.Event{Type: event.Gamma, E: t.Egamma, W: 1}
	if shell >= 0 {
		evt.Type = event.Electron
		evt.E = t.ceEnergy[shell][subshell]
	}
	evt.P = sampling.IsotropicDirection(rs.ChainValue(), rs.Slot(1))
	*dst = append(*dst, evt)

	if shell == 0 {
		return 1
	}
	return 0
}

// PVacant returns the probability that firing converts in the given shell
func (t *GammaConversionTransition) PVacant(shell int) float64 {
	if shell < 0 || shell >= len(t.subshells) {
		return 0
	}
	return t.shells.Prob(shell)
}

// Scale rescales the total intensity, the photon intensity, and the shell
// selector together so normalized branching is preserved.
func (t *GammaConversionTransition) Scale(s float64) {
	t.TransitionBase.Scale(s)
	t.Igamma *= s
	t.shells.Scale(s)
}

// Kind returns the variant name
func (t *GammaConversionTransition) Kind() string { return "gamma" }

// ConversionEffic returns the fraction of firings that convert instead of
// emitting the photon.
func (t *GammaConversionTransition) ConversionEffic() float64 {
	ce := 0.0
	for n := range t.subshells {
		ce += t.PVacant(n)
	}
	return ce
}

// ShellAverageE returns the mean conversion-electron energy of one shell,
// weighted by subshell ratios.
func (t *GammaConversionTransition) ShellAverageE(shell int) float64 {
	e, w := 0.0, 0.0
	sub := &t.subshells[shell]
	for i := 0; i < sub.Len(); i++ {
		p := sub.Prob(i)
		if p == 0 || math.IsNaN(t.ceEnergy[shell][i]) {
			continue
		}
		w += p
		e += t.ceEnergy[shell][i] * p
	}
	if w == 0 {
		return 0
	}
	return e / w
}

// AverageE returns the mean conversion-electron energy over all shells with
// the propagated shell-intensity uncertainty.
func (t *GammaConversionTransition) AverageE() records.ValueErr {
	e, w := 0.0, 0.0
	for n := range t.subshells {
		p := t.shells.Prob(n)
		if p == 0 {
			continue
		}
		e += t.ShellAverageE(n) * p
		w += p
	}
	if w == 0 {
		return records.ValueErr{}
	}
	e /= w
	serr := 0.0
	for n := range t.subshells {
		u := (t.ShellAverageE(n) - e) * t.shellUncert[n]
		serr += u * u
	}
	return records.ValueErr{X: e, Err: math.Sqrt(serr) / w}
}
