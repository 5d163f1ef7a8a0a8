package simd

import "math"

// Fallback is the portable scalar backend: one stereo sample, computed with
// math.Sin. It is slower and more precise than the vectorized backends, so
// its output differs from theirs in the low-order bits.
type Fallback struct{ L, R float64 }

func (Fallback) Samples() int { return 1 }

func (Fallback) Splat(v float64) Fallback { return Fallback{v, v} }

func (Fallback) Zero() Fallback { return Fallback{} }

func (Fallback) Load(a [MaxLanes]float64) Fallback { return Fallback{a[0], a[1]} }

func (f Fallback) Store() [MaxLanes]float64 { return [MaxLanes]float64{f.L, f.R} }

func (f Fallback) Add(o Fallback) Fallback { return Fallback{f.L + o.L, f.R + o.R} }

func (f Fallback) Sub(o Fallback) Fallback { return Fallback{f.L - o.L, f.R - o.R} }

func (f Fallback) Mul(o Fallback) Fallback { return Fallback{f.L * o.L, f.R * o.R} }

func (f Fallback) Min(o Fallback) Fallback { return Fallback{math.Min(f.L, o.L), math.Min(f.R, o.R)} }

func (f Fallback) Max(o Fallback) Fallback { return Fallback{math.Max(f.L, o.L), math.Max(f.R, o.R)} }

// Sin computes the right channel only when it differs from the left one.
func (f Fallback) Sin() Fallback {
	l := math.Sin(f.L)
	if math.Float64bits(f.L) == math.Float64bits(f.R) {
		return Fallback{l, l}
	}
	return Fallback{l, math.Sin(f.R)}
}

func (f Fallback) PairwiseSum() Fallback {
	s := f.L + f.R
	return Fallback{s, s}
}

func (f Fallback) Interleave(o Fallback) Fallback { return Fallback{f.L, o.R} }

func (f Fallback) Equal(o Fallback) bool {
	return math.Float64bits(f.L) == math.Float64bits(o.L) &&
		math.Float64bits(f.R) == math.Float64bits(o.R)
}
