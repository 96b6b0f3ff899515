// Package spectrum computes beta-decay energy spectra from Fermi theory and
// tabulates their inverse CDF so sampling one energy costs exactly one
// uniform draw.
package spectrum

import (
	"math"

	"nucgen/domain/physics"
)

// Shape parameterizes one beta branch: daughter mass and atomic number (Z
// signed, negative for positron emission), endpoint kinetic energy in keV,
// unique forbiddenness order, and Fermi/Gamow-Teller matrix elements.
type Shape struct {
	A         int
	Z         int
	EP        float64
	Forbidden int
	M2F       float64
	M2GT      float64
}

// Prob evaluates the unnormalized decay probability density at electron
// kinetic energy ke in keV. Zero outside (0, EP).
func (s Shape) Prob(ke float64) float64 {
	if ke <= 0 || ke >= s.EP {
		return 0
	}
	w := (ke + physics.ElectronMass) / physics.ElectronMass
	w0 := (s.EP + physics.ElectronMass) / physics.ElectronMass
	p := math.Sqrt(w*w - 1)
	q := w0 - w

	rate := p * w * q * q
	rate *= fermiFunction(s.Z, w, p)
	rate *= s.shapeFactor(p*p, q*q)
	rate *= s.M2F + s.M2GT
	return rate
}

// fermiFunction is the Coulomb correction in the nonrelativistic limit,
// nu/(1-exp(-nu)) with nu = 2 pi alpha Z W/p: enhancement for electrons
// (Z > 0), suppression for positrons (Z < 0).
func fermiFunction(z int, w, p float64) float64 {
	if z == 0 {
		return 1
	}
	nu := 2 * math.Pi * physics.FineStructure * float64(z) * w / p
	if nu > 700 {
		return nu
	}
	if nu < -700 {
		return 0
	}
	return nu / (1 - math.Exp(-nu))
}

// shapeFactor is the unique forbiddenness correction in terms of the squared
// electron and neutrino momenta (electron-mass units).
func (s Shape) shapeFactor(p2, q2 float64) float64 {
	switch {
	case s.Forbidden <= 0:
		return 1
	case s.Forbidden == 1:
		return p2 + q2
	case s.Forbidden == 2:
		return p2*p2 + 10.0/3.0*p2*q2 + q2*q2
	case s.Forbidden == 3:
		return p2*p2*p2 + 7*p2*p2*q2 + 7*p2*q2*q2 + q2*q2*q2
	}
	return math.Pow(p2+q2, float64(s.Forbidden))
}
