package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrNuclideNotFound = fmt.Errorf("%w: nuclide", ErrNotFound)
	ErrRunNotFound     = fmt.Errorf("%w: run", ErrNotFound)
	ErrLevelNotFound   = fmt.Errorf("%w: level", ErrNotFound)

	// Decay scheme configuration errors
	ErrMalformedRecord = errors.New("malformed record")
	ErrDuplicateLevel  = errors.New("duplicate level name")
	ErrUnknownLevel    = errors.New("unknown level name")
	ErrBadTransition   = errors.New("invalid transition")
	ErrEmptySystem     = errors.New("decay scheme has no levels")
	ErrNormalization   = errors.New("normalization failed")

	// Atomic data errors
	ErrBindingMissing = errors.New("binding energy unavailable")
	ErrUnknownElement = errors.New("element not in binding table")

	// Spectrum errors
	ErrDegenerateSpectrum = errors.New("spectrum has no probability mass")
	ErrBadEndpoint        = errors.New("non-positive beta endpoint")

	// Request validation
	ErrValidation = errors.New("validation failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewRecordError(class string, field string, reason string) error {
	return fmt.Errorf("%w: %s.%s: %s", ErrMalformedRecord, class, field, reason)
}

func NewTransitionError(kind string, from string, to string, reason string) error {
	return fmt.Errorf("%w: %s %s -> %s: %s", ErrBadTransition, kind, from, to, reason)
}

func NewBindingError(z int, shell int, subshell int) error {
	return fmt.Errorf("%w: Z=%d shell=%d subshell=%d", ErrBindingMissing, z, shell, subshell)
}

func NewValidationError(entity string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, entity, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemeError(err error) bool {
	return errors.Is(err, ErrMalformedRecord) ||
		errors.Is(err, ErrDuplicateLevel) ||
		errors.Is(err, ErrUnknownLevel) ||
		errors.Is(err, ErrBadTransition) ||
		errors.Is(err, ErrEmptySystem) ||
		errors.Is(err, ErrNormalization)
}

func IsAtomicDataError(err error) bool {
	return errors.Is(err, ErrBindingMissing) ||
		errors.Is(err, ErrUnknownElement)
}

func IsSpectrumError(err error) bool {
	return errors.Is(err, ErrDegenerateSpectrum) ||
		errors.Is(err, ErrBadEndpoint)
}
