package param

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 stores a patch value as its bit pattern so that the UI thread
// and the audio thread can share it without locks. Only single-value
// atomicity is provided: two AtomicFloat32s written together may be observed
// in either order.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

func (a *AtomicFloat32) Load() float32 {
	return math.Float32frombits(a.bits.Load())
}

// Store clamps v to [0, 1] (NaN becomes 0) and stores it.
func (a *AtomicFloat32) Store(v float32) {
	a.bits.Store(math.Float32bits(Clamp(v)))
}

// Clamp limits a patch value to [0, 1]. NaN maps to 0.
func Clamp(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
