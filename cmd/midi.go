package cmd

import (
	"errors"

	"github.com/vsariola/fmsynth"
)

// MIDIContext is a source of live note events from a MIDI input.
type MIDIContext interface {
	Events(frames int, dst []fmsynth.NoteEvent) []fmsynth.NoteEvent
	TryToOpenBy(namePrefix string, takeFirst bool) error
	Close()
}

var errMIDIUnavailable = errors.New("MIDI input needs a build with cgo")
