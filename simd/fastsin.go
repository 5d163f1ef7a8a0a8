package simd

import "math"

// Taylor coefficients of sin(x) up to x^13. After reduction to
// [-pi/2, pi/2] the truncation error stays below 1e-9.
const (
	sinC3  = -1.0 / 6
	sinC5  = 1.0 / 120
	sinC7  = -1.0 / 5040
	sinC9  = 1.0 / 362880
	sinC11 = -1.0 / 39916800
	sinC13 = 1.0 / 6227020800

	invPi = 1 / math.Pi
	// pi split in two so that x - k*pi keeps its low bits for moderate k
	piHi = 3.141592653589793116
	piLo = 1.2246467991473532e-16
)

// FastSin approximates math.Sin for the argument range seen by the operator
// network (a few hundred radians at most). It uses only additions,
// multiplications and one floor, so every backend that calls it produces the
// same bits for the same input.
func FastSin(x float64) float64 {
	k := math.Floor(x*invPi + 0.5)
	r := (x - k*piHi) - k*piLo
	r2 := r * r
	p := sinC13
	p = p*r2 + sinC11
	p = p*r2 + sinC9
	p = p*r2 + sinC7
	p = p*r2 + sinC5
	p = p*r2 + sinC3
	s := r + r*r2*p
	if int64(k)&1 != 0 {
		return -s
	}
	return s
}
