package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// simulation. Streams are derived, never shared: two workers must never
// draw from the same generator.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// WorkerStream creates the generator for one worker of a keyed run. The
	// same key, worker index, and base seed always rebuild the identical
	// stream. Callers key runs by their parameter fingerprint, so replaying
	// equal parameters replays equal streams.
	WorkerStream(ctx context.Context, key string, worker int, baseSeed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
