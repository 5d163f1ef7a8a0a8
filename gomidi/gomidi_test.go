package gomidi_test

import (
	"testing"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/gomidi"
	"gitlab.com/gomidi/midi/v2"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		msg  midi.Message
		ok   bool
		want fmsynth.NoteEvent
	}{
		{"note on", midi.NoteOn(3, 60, 100), true, fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 60, Velocity: 100}},
		{"note off", midi.NoteOff(0, 61), true, fmsynth.NoteEvent{Kind: fmsynth.NoteOff, Key: 61}},
		{"zero velocity", midi.NoteOn(0, 62, 0), true, fmsynth.NoteEvent{Kind: fmsynth.NoteOff, Key: 62}},
		{"aftertouch", midi.PolyAfterTouch(0, 63, 30), true, fmsynth.NoteEvent{Kind: fmsynth.Aftertouch, Key: 63, Velocity: 30}},
		{"bend up", midi.Pitchbend(0, 8191), true, fmsynth.NoteEvent{Kind: fmsynth.PitchBend, Bend: 1}},
		{"bend down", midi.Pitchbend(0, -8192), true, fmsynth.NoteEvent{Kind: fmsynth.PitchBend, Bend: -1}},
		{"control change", midi.ControlChange(0, 7, 100), false, fmsynth.NoteEvent{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := gomidi.Decode(c.msg, 17)
			if ok != c.ok {
				t.Fatalf("ok = %v, expected %v", ok, c.ok)
			}
			if !ok {
				return
			}
			c.want.Frame = 17
			if got.Kind != c.want.Kind || got.Key != c.want.Key || got.Bend != c.want.Bend || got.Frame != 17 {
				t.Fatalf("got %+v, expected %+v", got, c.want)
			}
			if got.Kind != fmsynth.NoteOff && got.Velocity != c.want.Velocity {
				t.Fatalf("velocity %d, expected %d", got.Velocity, c.want.Velocity)
			}
		})
	}
}

func TestQueueKeepsSpacing(t *testing.T) {
	q := gomidi.NewQueue(1000) // one frame per millisecond
	q.HandleMessage(midi.NoteOn(0, 60, 100), 0)
	q.HandleMessage(midi.NoteOff(0, 60), 50)
	first := q.Events(32, nil)
	if len(first) != 1 || first[0].Kind != fmsynth.NoteOn || first[0].Frame != 0 {
		t.Fatalf("first block: %+v", first)
	}
	second := q.Events(32, nil)
	if len(second) != 1 || second[0].Kind != fmsynth.NoteOff {
		t.Fatalf("second block: %+v", second)
	}
	if f := second[0].Frame; f <= 0 || f >= 32 {
		t.Fatalf("note-off at frame %d of the second block", f)
	}
	if third := q.Events(32, nil); len(third) != 0 {
		t.Fatalf("events delivered twice: %+v", third)
	}
}

func TestQueueIgnoresOtherMessages(t *testing.T) {
	q := gomidi.NewQueue(44100)
	q.HandleMessage(midi.ControlChange(0, 1, 64), 0)
	if got := q.Events(512, nil); len(got) != 0 {
		t.Fatalf("control change became %+v", got)
	}
}

func TestQueueEventsDoesNotAllocate(t *testing.T) {
	q := gomidi.NewQueue(1000)
	on, off := midi.NoteOn(0, 60, 100), midi.NoteOff(0, 60)
	dst := make([]fmsynth.NoteEvent, 0, 8)
	ts := int32(0)
	allocs := testing.AllocsPerRun(100, func() {
		q.HandleMessage(on, ts)
		q.HandleMessage(off, ts+10)
		ts += 32
		dst = q.Events(32, dst[:0])
	})
	if allocs != 0 {
		t.Fatalf("Events allocated %v times per block", allocs)
	}
	if len(dst) != 2 {
		t.Fatalf("last block delivered %+v", dst)
	}
}
