package sampling

import (
	"math"
	"math/rand"
	"testing"
)

// TestRandStateBufferedWindow tests forward reads, chaining, and advancing
func TestRandStateBufferedWindow(t *testing.T) {
	buf := []float64{0.25, 0.9, 0.1, 0.7, 0.3}
	rs := NewRandState(buf, rand.New(rand.NewSource(42)))

	if !rs.Buffered() {
		t.Fatal("Expected buffered state")
	}
	if v := rs.Slot(1); v != 0.9 {
		t.Errorf("Expected slot 1 = 0.9, got %g", v)
	}

	// level choice over two equal bins consumes slot 0 and leaves a residual
	sel := NewSelector(1, 1)
	x := rs.Chain()
	if bin := sel.Select(x, nil); bin != 0 {
		t.Errorf("Expected bin 0 for slot value 0.25, got %d", bin)
	}
	if math.Abs(*x-0.5) > 1e-12 {
		t.Errorf("Expected chained residual 0.5, got %g", *x)
	}
	if v := rs.ChainValue(); math.Abs(v-0.5) > 1e-12 {
		t.Errorf("ChainValue should expose the residual, got %g", v)
	}

	// buffer itself must stay untouched
	if buf[0] != 0.25 {
		t.Errorf("Caller buffer was mutated: %v", buf)
	}

	rs.Advance(2)
	if v := rs.ChainValue(); v != 0.1 {
		t.Errorf("Expected fresh chain value 0.1 after advance, got %g", v)
	}
	if v := rs.Slot(1); v != 0.7 {
		t.Errorf("Expected slot 1 = 0.7 after advance, got %g", v)
	}
}

// TestRandStateOverrun tests that reading past the buffer panics
func TestRandStateOverrun(t *testing.T) {
	rs := NewRandState([]float64{0.5}, nil)
	rs.Advance(1)

	defer func() {
		if recover() == nil {
			t.Error("Reading past the slot buffer should panic")
		}
	}()
	rs.Slot(0)
}

// TestRandStateLive tests that live mode draws fresh values and ignores Advance
func TestRandStateLive(t *testing.T) {
	rs := Live(rand.New(rand.NewSource(42)))

	if rs.Buffered() {
		t.Fatal("Expected live state")
	}
	if rs.Chain() != nil {
		t.Error("Live mode should have no chained slot")
	}

	a, b := rs.ChainValue(), rs.ChainValue()
	if a == b {
		t.Errorf("Live draws should differ: %g vs %g", a, b)
	}
	rs.Advance(100)
	v := rs.Slot(7)
	if v < 0 || v >= 1 {
		t.Errorf("Live slot read outside [0,1): %g", v)
	}
}

// TestIsotropicDirectionUnit tests unit norm and the polar mapping
func TestIsotropicDirectionUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		u, v := rng.Float64(), rng.Float64()
		d := IsotropicDirection(u, v)
		norm := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if math.Abs(norm-1) > 1e-12 {
			t.Fatalf("Direction not unit length: |%v| = %g", d, norm)
		}
		if math.Abs(d[2]-(2*u-1)) > 1e-12 {
			t.Fatalf("Polar cosine should be 2u-1, got %g for u=%g", d[2], u)
		}
	}
}
