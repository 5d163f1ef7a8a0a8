//go:build cgo

package cmd

import "github.com/vsariola/fmsynth/gomidi"

func NewMIDIContext(sampleRate float64) MIDIContext {
	return gomidi.NewContext(sampleRate)
}
