package param

import (
	"math/bits"
	"sync/atomic"
)

type (
	// Bits is a plain 128-bit set of parameter indices.
	Bits [2]uint64

	// ChangeMask is the shared 128-bit "changed since last drain" set. Mark is
	// called by any thread, Take only by the audio thread.
	ChangeMask struct {
		words [2]atomic.Uint64
	}
)

func (b *Bits) Set(i uint8) { b[i>>6] |= 1 << (i & 63) }
func (b *Bits) Clear(i uint8) { b[i>>6] &^= 1 << (i & 63) }
func (b Bits) Has(i uint8) bool { return b[i>>6]&(1<<(i&63)) != 0 }
func (b Bits) Empty() bool { return b[0]|b[1] == 0 }
func (b Bits) Len() int { return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1]) }
func (b Bits) Union(o Bits) Bits { return Bits{b[0] | o[0], b[1] | o[1]} }

// Each calls f for every set index in ascending order.
func (b Bits) Each(f func(i uint8)) {
	for w := range b {
		word := b[w]
		for word != 0 {
			t := bits.TrailingZeros64(word)
			word &= word - 1
			f(uint8(w<<6 | t))
		}
	}
}

// Mark sets bit i. Indices >= 128 are ignored.
func (m *ChangeMask) Mark(i uint8) {
	if i >= 128 {
		return
	}
	m.words[i>>6].Or(1 << (i & 63))
}

// Take atomically returns the set bits and clears them.
func (m *ChangeMask) Take() Bits {
	return Bits{m.words[0].Swap(0), m.words[1].Swap(0)}
}
