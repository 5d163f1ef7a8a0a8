package simd

import "math"

// SSE2 holds one stereo sample, the width of a 128-bit register of doubles.
type SSE2 [2]float64

func (SSE2) Samples() int { return 1 }

func (SSE2) Splat(v float64) SSE2 { return SSE2{v, v} }

func (SSE2) Zero() SSE2 { return SSE2{} }

func (SSE2) Load(a [MaxLanes]float64) SSE2 { return SSE2{a[0], a[1]} }

func (s SSE2) Store() [MaxLanes]float64 { return [MaxLanes]float64{s[0], s[1]} }

func (s SSE2) Add(o SSE2) SSE2 { return SSE2{s[0] + o[0], s[1] + o[1]} }

func (s SSE2) Sub(o SSE2) SSE2 { return SSE2{s[0] - o[0], s[1] - o[1]} }

func (s SSE2) Mul(o SSE2) SSE2 { return SSE2{s[0] * o[0], s[1] * o[1]} }

func (s SSE2) Min(o SSE2) SSE2 { return SSE2{minpd(s[0], o[0]), minpd(s[1], o[1])} }

func (s SSE2) Max(o SSE2) SSE2 { return SSE2{maxpd(s[0], o[0]), maxpd(s[1], o[1])} }

func (s SSE2) Sin() SSE2 { return SSE2{FastSin(s[0]), FastSin(s[1])} }

func (s SSE2) PairwiseSum() SSE2 {
	sum := s[0] + s[1]
	return SSE2{sum, sum}
}

func (s SSE2) Interleave(o SSE2) SSE2 { return SSE2{s[0], o[1]} }

func (s SSE2) Equal(o SSE2) bool {
	return math.Float64bits(s[0]) == math.Float64bits(o[0]) &&
		math.Float64bits(s[1]) == math.Float64bits(o[1])
}

// minpd and maxpd follow the x86 MINPD/MAXPD rule: when the comparison is
// false (NaN or equal operands) the second operand is returned.
func minpd(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxpd(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
