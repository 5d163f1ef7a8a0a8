package fmsynth_test

import (
	"testing"

	"github.com/vsariola/fmsynth"
)

func TestSortEventsIsStable(t *testing.T) {
	events := []fmsynth.NoteEvent{
		{Frame: 5, Key: 1},
		{Frame: 0, Key: 2},
		{Frame: 5, Key: 3},
		{Frame: 0, Key: 4},
	}
	fmsynth.SortEvents(events)
	want := []uint8{2, 4, 1, 3}
	for i, e := range events {
		if e.Key != want[i] {
			t.Fatalf("event %d has key %d, expected %d", i, e.Key, want[i])
		}
	}
}

func TestEventKindText(t *testing.T) {
	for k := fmsynth.NoteOn; k <= fmsynth.PitchBend; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("could not marshal %v: %v", k, err)
		}
		var got fmsynth.EventKind
		if err := got.UnmarshalText(text); err != nil || got != k {
			t.Fatalf("%q unmarshaled to %v, %v", text, got, err)
		}
	}
	var k fmsynth.EventKind
	if err := k.UnmarshalText([]byte("OFF")); err != nil || k != fmsynth.NoteOff {
		t.Fatalf("kind names should be case-insensitive: %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("sustain")); err == nil {
		t.Fatal("unknown kind was accepted")
	}
	if _, err := fmsynth.EventKind(9).MarshalText(); err == nil {
		t.Fatal("unknown kind was marshaled")
	}
}
