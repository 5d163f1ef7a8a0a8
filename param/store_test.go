package param_test

import (
	"math"
	"sync"
	"testing"
	"testing/quick"

	"github.com/vsariola/fmsynth/param"
)

func drainAll(s *param.Store) map[uint8]float32 {
	got := map[uint8]float32{}
	s.Drain(func(i uint8, v float32) {
		if _, dup := got[i]; dup {
			panic("index yielded twice in one drain")
		}
		got[i] = v
	})
	return got
}

func TestNewStoreDeliversWholePatch(t *testing.T) {
	s := param.NewStore()
	got := drainAll(s)
	if len(got) != param.Count {
		t.Fatalf("first drain delivered %d values, expected %d", len(got), param.Count)
	}
	for i, v := range got {
		if v != param.Table[i].Default {
			t.Fatalf("parameter %v: got %v, expected default %v", param.Table[i].Name, v, param.Table[i].Default)
		}
	}
	if n := len(drainAll(s)); n != 0 {
		t.Fatalf("second drain delivered %d values, expected none", n)
	}
}

func TestStoreCollapsesWrites(t *testing.T) {
	s := param.NewStore()
	drainAll(s)
	s.Set(3, 0.1)
	s.Set(3, 0.2)
	s.Set(3, 0.7)
	got := drainAll(s)
	if len(got) != 1 || got[3] != 0.7 {
		t.Fatalf("expected only the latest write, got %v", got)
	}
}

func TestStoreClamps(t *testing.T) {
	s := param.NewStore()
	for _, c := range []struct{ in, want float32 }{
		{-1, 0}, {2, 1}, {float32(math.NaN()), 0}, {float32(math.Inf(1)), 1}, {0.25, 0.25},
	} {
		s.Set(0, c.in)
		if got := s.Get(0); got != c.want {
			t.Errorf("Set(%v): stored %v, expected %v", c.in, got, c.want)
		}
	}
}

func TestStoreIgnoresOutOfRange(t *testing.T) {
	s := param.NewStore()
	drainAll(s)
	s.Set(param.Count, 0.5)
	s.Set(255, 0.5)
	if got := s.Get(255); got != 0 {
		t.Fatalf("Get out of range returned %v", got)
	}
	if n := len(drainAll(s)); n != 0 {
		t.Fatalf("out of range Set was delivered %d times", n)
	}
}

type storeOp struct {
	Index uint8
	Value float32
	Drain bool
}

// Marking a set of indices and draining yields exactly that set with the
// latest values, over arbitrary interleavings of sets and drains.
func TestChangeMaskRoundTrip(t *testing.T) {
	f := func(ops []storeOp) bool {
		s := param.NewStore()
		drainAll(s)
		pending := map[uint8]float32{}
		check := func() bool {
			got := drainAll(s)
			if len(got) != len(pending) {
				return false
			}
			for i, v := range pending {
				if got[i] != v {
					return false
				}
			}
			pending = map[uint8]float32{}
			return true
		}
		for _, op := range ops {
			if op.Drain {
				if !check() {
					return false
				}
				continue
			}
			s.Set(op.Index, op.Value)
			if int(op.Index) < param.Count {
				pending[op.Index] = param.Clamp(op.Value)
			}
		}
		return check()
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Fatal(err)
	}
}

func TestConcurrentSetAndDrain(t *testing.T) {
	s := param.NewStore()
	drainAll(s)
	const writes = 20000
	var last [param.Count]float32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < writes; n++ {
			i := uint8(n % param.Count)
			v := float32(n) / writes
			s.Set(i, v)
			last[i] = v
		}
	}()
	seen := map[uint8]float32{}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	collect := func() {
		s.Drain(func(i uint8, v float32) { seen[i] = v })
	}
loop:
	for {
		select {
		case <-done:
			break loop
		default:
			collect()
		}
	}
	collect()
	for i := 0; i < param.Count; i++ {
		if seen[uint8(i)] != last[i] {
			t.Fatalf("parameter %d: last delivered %v, last written %v", i, seen[uint8(i)], last[i])
		}
	}
}

func TestBitsEach(t *testing.T) {
	var b param.Bits
	for _, i := range []uint8{0, 5, 63, 64, 98, 127} {
		b.Set(i)
	}
	var got []uint8
	b.Each(func(i uint8) { got = append(got, i) })
	want := []uint8{0, 5, 63, 64, 98, 127}
	if len(got) != len(want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("got %v, expected %v", got, want)
		}
	}
	b.Clear(63)
	if b.Has(63) || b.Len() != 5 {
		t.Fatalf("clear failed: %v", b)
	}
}
