// Package gomidi turns MIDI input into fmsynth note events using
// gitlab.com/gomidi/midi/v2.
package gomidi

import (
	"github.com/vsariola/fmsynth"
	"gitlab.com/gomidi/midi/v2"
)

// Decode converts a channel voice message into a note event at frame. Note-on
// with velocity 0 is a note-off. Channels are ignored. ok is false for
// messages the synth does not react to.
func Decode(msg midi.Message, frame int) (e fmsynth.NoteEvent, ok bool) {
	var channel, key, velocity uint8
	var rel int16
	var abs uint16
	e.Frame = frame
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		e.Kind, e.Key, e.Velocity = fmsynth.NoteOn, key, velocity
		if velocity == 0 {
			e.Kind = fmsynth.NoteOff
		}
	case msg.GetNoteOff(&channel, &key, &velocity):
		e.Kind, e.Key, e.Velocity = fmsynth.NoteOff, key, velocity
	case msg.GetPolyAfterTouch(&channel, &key, &velocity):
		e.Kind, e.Key, e.Velocity = fmsynth.Aftertouch, key, velocity
	case msg.GetPitchBend(&channel, &rel, &abs):
		e.Kind = fmsynth.PitchBend
		if rel > 0 {
			e.Bend = float32(rel) / 8191
		} else {
			e.Bend = float32(rel) / 8192
		}
	default:
		return fmsynth.NoteEvent{}, false
	}
	return e, true
}
