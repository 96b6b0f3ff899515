package sampling

import "math"

// IsotropicDirection maps two uniform [0,1) values to a direction distributed
// uniformly over the unit sphere: u sets the polar cosine, v the azimuth.
func IsotropicDirection(u, v float64) [3]float64 {
	phi := 2 * math.Pi * v
	cost := 2*u - 1
	sint := math.Sqrt(1 - cost*cost)
	return [3]float64{math.Cos(phi) * sint, math.Sin(phi) * sint, cost}
}
