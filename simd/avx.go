package simd

import "math"

// AVX holds two stereo samples, the width of a 256-bit register of doubles.
type AVX [4]float64

func (AVX) Samples() int { return 2 }

func (AVX) Splat(v float64) AVX { return AVX{v, v, v, v} }

func (AVX) Zero() AVX { return AVX{} }

func (AVX) Load(a [MaxLanes]float64) AVX { return AVX(a) }

func (v AVX) Store() [MaxLanes]float64 { return v }

func (v AVX) Add(o AVX) AVX { return AVX{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]} }

func (v AVX) Sub(o AVX) AVX { return AVX{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]} }

func (v AVX) Mul(o AVX) AVX { return AVX{v[0] * o[0], v[1] * o[1], v[2] * o[2], v[3] * o[3]} }

func (v AVX) Min(o AVX) AVX {
	return AVX{minpd(v[0], o[0]), minpd(v[1], o[1]), minpd(v[2], o[2]), minpd(v[3], o[3])}
}

func (v AVX) Max(o AVX) AVX {
	return AVX{maxpd(v[0], o[0]), maxpd(v[1], o[1]), maxpd(v[2], o[2]), maxpd(v[3], o[3])}
}

func (v AVX) Sin() AVX {
	return AVX{FastSin(v[0]), FastSin(v[1]), FastSin(v[2]), FastSin(v[3])}
}

func (v AVX) PairwiseSum() AVX {
	a, b := v[0]+v[1], v[2]+v[3]
	return AVX{a, a, b, b}
}

func (v AVX) Interleave(o AVX) AVX { return AVX{v[0], o[1], v[2], o[3]} }

func (v AVX) Equal(o AVX) bool {
	for i := range v {
		if math.Float64bits(v[i]) != math.Float64bits(o[i]) {
			return false
		}
	}
	return true
}
