package sampling

import "math"

// PositionGenerator samples decay vertex positions. Buffered callers budget
// NDF extra slots per chain in addition to the chain's own.
type PositionGenerator interface {
	GenPos(rs *RandState) [3]float64
	NDF() int
}

// CubePos fills the unit cube [0,1)^3; callers scale and offset as needed.
type CubePos struct{}

func (CubePos) GenPos(rs *RandState) [3]float64 {
	v := [3]float64{rs.Slot(0), rs.Slot(1), rs.Slot(2)}
	rs.Advance(3)
	return v
}

func (CubePos) NDF() int { return 3 }

// CylPos fills a cylinder of radius R and full length DZ centered on the
// origin, axis along z.
type CylPos struct {
	R  float64
	DZ float64
}

func (c CylPos) GenPos(rs *RandState) [3]float64 {
	x, y := squareToCircle(rs.Slot(0), rs.Slot(1), c.R)
	z := (rs.Slot(2) - 0.5) * c.DZ
	rs.Advance(3)
	return [3]float64{x, y, z}
}

func (c CylPos) NDF() int { return 3 }

// squareToCircle maps the unit square onto a disc of radius r, area-uniform
func squareToCircle(u, v, r float64) (float64, float64) {
	th := 2 * math.Pi * u
	r *= math.Sqrt(v)
	return r * math.Cos(th), r * math.Sin(th)
}
