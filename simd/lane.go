// Package simd defines the packed-lane arithmetic used by the operator network
// and the backends that implement it.
//
// A lane value packs one or two stereo samples: lanes 0 and 1 hold the left
// and right channel of the first sample, lanes 2 and 3 (when present) the
// second sample. Go has no vector intrinsics, so every backend is a fixed-size
// value whose shape mirrors the register width it is named after. The
// backends have distinct memory layouts, so the kernels written against Lane
// get one instantiation each, and values only cross the contract by copy,
// which keeps them off the heap.
package simd

// MaxLanes is the widest lane count of any backend. Arrays of this size are
// used to move values in and out of lanes without allocating.
const MaxLanes = 4

// Lane is the capability contract of a backend. The methods are called on
// values, so the zero value of T can be used as a factory:
//
//	var zero T
//	one := zero.Splat(1)
type Lane[T any] interface {
	// Samples returns how many stereo samples one value holds.
	Samples() int
	// Splat returns a value with every lane set to v.
	Splat(v float64) T
	// Zero returns a value with every lane set to 0.
	Zero() T
	// Load builds a value from the first 2*Samples() elements of a.
	Load(a [MaxLanes]float64) T
	// Store returns the lanes in the first 2*Samples() elements.
	Store() [MaxLanes]float64
	Add(o T) T
	Sub(o T) T
	Mul(o T) T
	Min(o T) T
	Max(o T) T
	// Sin returns the sine of every lane. Vectorized backends use FastSin.
	Sin() T
	// PairwiseSum adds the left and right lane of each sample and stores the
	// sum in both lanes.
	PairwiseSum() T
	// Interleave takes the left lanes from the receiver and the right lanes
	// from o.
	Interleave(o T) T
	// Equal reports whether all lanes are bit-identical to o's.
	Equal(o T) bool
}
