// Package cmd holds what the fmsynth command line tools share: the list of
// synth implementations and the MIDI context.
package cmd

import (
	"fmt"
	"strings"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/synth"
)

// Synthers lists the available synth implementations, the CPU's best one
// first.
var Synthers = []fmsynth.Synther{
	synth.GoSynther{Detect: true},
	synth.GoSynther{Backend: simd.BackendFallback},
	synth.GoSynther{Backend: simd.BackendSSE2},
	synth.GoSynther{Backend: simd.BackendAVX},
}

// SyntherByBackend returns the synther for a backend name, or the detected
// one for "" and "auto".
func SyntherByBackend(name string) (fmsynth.Synther, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return Synthers[0], nil
	}
	b, err := simd.ParseBackend(name)
	if err != nil {
		return nil, fmt.Errorf("invalid backend: %w", err)
	}
	return synth.GoSynther{Backend: b}, nil
}
