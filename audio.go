package fmsynth

import (
	"math"

	"github.com/viterin/vek/vek32"
)

type (
	// AudioBuffer is a buffer of stereo audio frames.
	AudioBuffer [][2]float32

	// AudioSink receives rendered audio, e.g. a sound card or a file.
	AudioSink interface {
		WriteAudio(buffer AudioBuffer) error
		Close() error
	}

	// AudioContext opens sinks on an output device.
	AudioContext interface {
		Output() AudioSink
		Close() error
	}
)

// Fill renders the whole buffer without any events.
func (buffer AudioBuffer) Fill(synth Synth) {
	synth.Render(buffer, nil)
}

// Split copies the channels of the buffer into left and right and returns
// the number of frames copied.
func (buffer AudioBuffer) Split(left, right []float32) int {
	n := min(len(buffer), len(left), len(right))
	for i := 0; i < n; i++ {
		left[i], right[i] = buffer[i][0], buffer[i][1]
	}
	return n
}

// Join fills the buffer from separate channels and returns the number of
// frames written.
func (buffer AudioBuffer) Join(left, right []float32) int {
	n := min(len(buffer), len(left), len(right))
	for i := 0; i < n; i++ {
		buffer[i] = [2]float32{left[i], right[i]}
	}
	return n
}

// Levels returns the peak absolute sample value and the RMS level over both
// channels.
func (buffer AudioBuffer) Levels() (peak, rms float32) {
	if len(buffer) == 0 {
		return 0, 0
	}
	left, right := make([]float32, len(buffer)), make([]float32, len(buffer))
	buffer.Split(left, right)
	var power float32
	for _, c := range [][]float32{left, right} {
		sq := vek32.Mul(c, c)
		power += vek32.Mean(sq) / 2
		vek32.Abs_Inplace(c)
		peak = max(peak, vek32.Max(c))
	}
	return peak, float32(math.Sqrt(float64(power)))
}

// Gain multiplies every sample by g.
func (buffer AudioBuffer) Gain(g float32) {
	if g == 1 || len(buffer) == 0 {
		return
	}
	left, right := make([]float32, len(buffer)), make([]float32, len(buffer))
	buffer.Split(left, right)
	vek32.MulNumber_Inplace(left, g)
	vek32.MulNumber_Inplace(right, g)
	buffer.Join(left, right)
}
