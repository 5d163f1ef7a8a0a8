package oto_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/oto"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/synth"
)

func TestFloatBufferTo32BitLE(t *testing.T) {
	buf := fmsynth.AudioBuffer{{0.5, -0.25}, {1, 0}}
	b := oto.FloatBufferTo32BitLE(buf, nil)
	if len(b) != 16 {
		t.Fatalf("got %d bytes, expected 16", len(b))
	}
	for i, want := range []float32{0.5, -0.25, 1, 0} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])); got != want {
			t.Fatalf("sample %d: got %v, expected %v", i, got, want)
		}
	}
}

type oneNote struct{ sent bool }

func (o *oneNote) Events(frames int, dst []fmsynth.NoteEvent) []fmsynth.NoteEvent {
	if o.sent {
		return dst
	}
	o.sent = true
	return append(dst, fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127})
}

func TestSynthReaderMatchesRender(t *testing.T) {
	const frames = 1000
	r := oto.NewSynthReader(synth.NewWithBackend(44100, simd.BackendSSE2), &oneNote{})
	got := make([]byte, 0, frames*8)
	chunk := make([]byte, 777) // not a multiple of the frame size
	for len(got) < frames*8 {
		n, err := r.Read(chunk)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if n%8 != 0 {
			t.Fatalf("Read returned %d bytes, not whole frames", n)
		}
		got = append(got, chunk[:n]...)
	}
	want := make(fmsynth.AudioBuffer, len(got)/8)
	synth.NewWithBackend(44100, simd.BackendSSE2).Render(want, []fmsynth.NoteEvent{{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127}})
	wantBytes := oto.FloatBufferTo32BitLE(want, nil)
	for i := range wantBytes {
		if got[i] != wantBytes[i] {
			t.Fatalf("byte %d differs", i)
		}
	}
}
