// Package physics holds the physical constants used by the decay generator.
// Values are CODATA 2018 (https://physics.nist.gov/cuu/Constants/index.html).
// Energies are in keV throughout unless a name says otherwise.
package physics

const (
	// ElectronMass is the electron rest mass [keV/c^2].
	ElectronMass = 510.99895000

	// ProtonMass is the proton rest mass [keV/c^2].
	ProtonMass = 938272.08816

	// NeutronProtonDelta is the neutron-proton mass difference [keV/c^2].
	NeutronProtonDelta = 1293.33236

	// AMU is the atomic mass unit [keV/c^2].
	AMU = 931494.10242

	// FineStructure is the fine structure constant alpha [dimensionless].
	FineStructure = 0.0072973525693

	// HbarC is the reduced Planck constant times c [keV fm].
	HbarC = 197326.9804

	// Avogadro is the Avogadro constant [1/mol].
	Avogadro = 6.02214076e23

	// ElementaryCharge is the elementary charge [Coulomb].
	ElementaryCharge = 1.602176634e-19
)
