package fmsynth

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// EventKind is the type of a NoteEvent.
	EventKind uint8

	// NoteEvent is a timestamped instruction to the voice pool. Frame is the
	// offset in frames from the start of the block it is delivered with;
	// events beyond the block are applied at its end.
	NoteEvent struct {
		Frame    int       `yaml:"frame"`
		Kind     EventKind `yaml:"kind"`
		Key      uint8     `yaml:"key,omitempty"`
		Velocity uint8     `yaml:"velocity,omitempty"`
		Glide    *Glide    `yaml:"glide,omitempty"`
		Bend     float32   `yaml:"bend,omitempty"` // -1 .. 1, PitchBend only
	}

	// Glide asks a note-on to slide from Key to TargetKey in Seconds.
	Glide struct {
		TargetKey uint8   `yaml:"target"`
		Seconds   float64 `yaml:"seconds"`
	}
)

const (
	NoteOn EventKind = iota
	NoteOff
	Aftertouch
	PitchBend
)

var eventKindNames = [...]string{"on", "off", "aftertouch", "bend"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (k EventKind) MarshalText() ([]byte, error) {
	if int(k) >= len(eventKindNames) {
		return nil, fmt.Errorf("unknown event kind %d", k)
	}
	return []byte(eventKindNames[k]), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for i, n := range eventKindNames {
		if strings.EqualFold(string(text), n) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// SortEvents orders events by frame. Events on the same frame keep their
// relative order. The sort is in place and does not allocate.
func SortEvents(events []NoteEvent) {
	slices.SortStableFunc(events, func(a, b NoteEvent) int { return a.Frame - b.Frame })
}
