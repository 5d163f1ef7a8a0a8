//go:build !cgo

package cmd

import "github.com/vsariola/fmsynth/gomidi"

func NewMIDIContext(sampleRate float64) MIDIContext {
	// with no cgo, we cannot use MIDI, so return a context without inputs
	return nullMIDIContext{gomidi.NewQueue(sampleRate)}
}

type nullMIDIContext struct{ *gomidi.Queue }

func (nullMIDIContext) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	return errMIDIUnavailable
}

func (nullMIDIContext) Close() {}
