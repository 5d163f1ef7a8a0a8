package param

import (
	"math/bits"
	"sync/atomic"
)

// Store holds the patch values shared between the UI/host thread and the
// audio thread. Every method is lock-free and allocation-free.
//
// Each parameter has an "unread" marker next to the change mask bit. Set
// writes the value, then the marker, then the bit. Drain clears the bit and
// swaps the marker: a marker that was already false means the value behind a
// stale bit has been delivered before, so nothing is yielded for it.
type Store struct {
	values [Count]AtomicFloat32
	unread [Count]atomic.Bool
	mask   ChangeMask
}

// NewStore returns a store holding the default patch and every index marked
// changed, so the first drain delivers the whole patch.
func NewStore() *Store {
	s := &Store{}
	for i := range Table {
		s.values[i].Store(Table[i].Default)
	}
	s.MarkAll()
	return s
}

// Set clamps v to [0, 1] and stores it. Out of range indices are ignored.
func (s *Store) Set(i uint8, v float32) {
	if int(i) >= Count {
		return
	}
	s.values[i].Store(v)
	s.unread[i].Store(true)
	s.mask.Mark(i)
}

// Get returns the stored value, or 0 for an out of range index.
func (s *Store) Get(i uint8) float32 {
	if int(i) >= Count {
		return 0
	}
	return s.values[i].Load()
}

// Drain takes the change mask and yields the latest value of every changed
// parameter that has not been delivered yet. It returns the number of values
// yielded. Only the audio thread may call Drain.
func (s *Store) Drain(yield func(i uint8, v float32)) int {
	changed := s.mask.Take()
	if changed.Empty() {
		return 0
	}
	n := 0
	for w := range changed {
		word := changed[w]
		for word != 0 {
			i := uint8(w<<6) | uint8(bits.TrailingZeros64(word))
			word &= word - 1
			if s.unread[i].Swap(false) {
				yield(i, s.values[i].Load())
				n++
			}
		}
	}
	return n
}

// MarkAll flags every parameter as changed and unread.
func (s *Store) MarkAll() {
	for i := 0; i < Count; i++ {
		s.unread[i].Store(true)
		s.mask.Mark(uint8(i))
	}
}

// Snapshot copies the current values into dst.
func (s *Store) Snapshot(dst *[Count]float32) {
	for i := range dst {
		dst[i] = s.values[i].Load()
	}
}
