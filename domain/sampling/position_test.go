package sampling

import (
	"math"
	"math/rand"
	"testing"
)

// TestCubePosRange tests that cube positions fill the unit cube
func TestCubePosRange(t *testing.T) {
	gen := CubePos{}
	if gen.NDF() != 3 {
		t.Fatalf("Cube generator should consume 3 slots, reports %d", gen.NDF())
	}

	rs := Live(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		v := gen.GenPos(rs)
		for d := 0; d < 3; d++ {
			if v[d] < 0 || v[d] >= 1 {
				t.Fatalf("Coordinate %d outside unit cube: %v", d, v)
			}
		}
	}
}

// TestCylPosGeometry tests radius and height bounds of cylinder positions
func TestCylPosGeometry(t *testing.T) {
	gen := CylPos{R: 2.5, DZ: 6}
	rs := Live(rand.New(rand.NewSource(42)))

	for i := 0; i < 2000; i++ {
		v := gen.GenPos(rs)
		r := math.Hypot(v[0], v[1])
		if r > gen.R {
			t.Fatalf("Radius %g exceeds %g at %v", r, gen.R, v)
		}
		if math.Abs(v[2]) > gen.DZ/2 {
			t.Fatalf("Height %g outside half-length %g", v[2], gen.DZ/2)
		}
	}
}

// TestCylPosBuffered tests that buffered vertex sampling is reproducible
func TestCylPosBuffered(t *testing.T) {
	gen := CylPos{R: 1, DZ: 2}
	buf := []float64{0.1, 0.4, 0.9}

	a := gen.GenPos(NewRandState(buf, nil))
	b := gen.GenPos(NewRandState(buf, nil))
	if a != b {
		t.Errorf("Same slot buffer should give the same vertex: %v vs %v", a, b)
	}
}
