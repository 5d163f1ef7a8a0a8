package synth_test

import (
	"math"
	"math/cmplx"
	"testing"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/synth"
)

const fftSize = 8192

// spectrum renders a held note and returns the magnitude spectrum of the
// left channel once the envelopes have settled.
func spectrum(t *testing.T, patch map[string]string, events ...fmsynth.NoteEvent) []float64 {
	t.Helper()
	s := synth.NewWithBackend(sampleRate, simd.BackendSSE2)
	setPatch(t, s, patch)
	const settle = sampleRate / 2
	left, _ := render(s, settle+fftSize, events, fixed(512))
	src := make([]float64, fftSize)
	for i := range src {
		// Hann window
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/fftSize)
		src[i] = w * float64(left[settle+i])
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		t.Fatalf("could not create the FFT plan: %v", err)
	}
	dst := make([]complex128, fftSize/2+1)
	plan.Forward(dst, src)
	mag := make([]float64, len(dst))
	for i, c := range dst {
		mag[i] = cmplx.Abs(c)
	}
	return mag
}

func peakHz(mag []float64) float64 {
	best := 1
	for i := 1; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return float64(best) * sampleRate / fftSize
}

func magAt(mag []float64, hz float64) float64 {
	return mag[int(math.Round(hz*fftSize/sampleRate))]
}

const binHz = float64(sampleRate) / fftSize

func TestCarrierPitch(t *testing.T) {
	mag := spectrum(t, nil, fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127})
	if got := peakHz(mag); math.Abs(got-440) > binHz {
		t.Fatalf("A4 peaks at %v Hz", got)
	}
	mag = spectrum(t, map[string]string{"master.frequency": "432 Hz", "op1.frequency_ratio": "2"},
		fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127})
	if got := peakHz(mag); math.Abs(got-864) > binHz {
		t.Fatalf("A4 at 432 Hz with ratio 2 peaks at %v Hz", got)
	}
}

func TestPitchBend(t *testing.T) {
	mag := spectrum(t, map[string]string{"pitch_bend.range_up": "12 st"},
		fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127},
		fmsynth.NoteEvent{Kind: fmsynth.PitchBend, Bend: 1})
	if got := peakHz(mag); math.Abs(got-880) > binHz {
		t.Fatalf("bent A4 peaks at %v Hz, expected an octave up", got)
	}
}

func TestModulationAddsSidebands(t *testing.T) {
	on := fmsynth.NoteEvent{Kind: fmsynth.NoteOn, Key: 69, Velocity: 127}
	pure := spectrum(t, nil, on)
	fm := spectrum(t, map[string]string{"op2.active": "on", "op2.mod_index": "1π"}, on)
	// a 1:1 modulator puts energy at the harmonics of the carrier
	if magAt(pure, 880) > 1e-3*magAt(pure, 440) {
		t.Fatalf("pure sine has a second harmonic: %v vs %v", magAt(pure, 880), magAt(pure, 440))
	}
	if magAt(fm, 880) < 0.1*magAt(fm, 440) {
		t.Fatalf("modulated sine lacks a second harmonic: %v vs %v", magAt(fm, 880), magAt(fm, 440))
	}
}
