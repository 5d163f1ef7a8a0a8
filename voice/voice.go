package voice

import "github.com/vsariola/fmsynth/param"

type (
	// Voice is one note slot. Slots are created with the pool and reused for
	// every note they play.
	Voice struct {
		Active    bool
		Key       uint8
		Envelopes [param.NumOperators]Envelope
		LFOs      [param.NumLFOs]LFO
		// Phases are the operator phases in [0, 1), carried across blocks.
		Phases [param.NumOperators]float64

		pressed  bool
		velocity param.Interpolator
		pitch    param.Interpolator // fractional MIDI key
		seed     uint32
		age      uint64
	}

	// Glide is an explicit portamento request attached to a note-on: the
	// pitch moves from the pressed key to TargetKey in Seconds.
	Glide struct {
		TargetKey uint8
		Seconds   float64
	}
)

// VelocityInterpolationSamples is the ramp length of velocity and aftertouch
// changes on a sounding voice.
const VelocityInterpolationSamples = param.InterpolationSamples

func (v *Voice) Pressed() bool { return v.pressed }

// Velocity returns the current interpolated velocity in [0, 1].
func (v *Voice) Velocity() float64 { return v.velocity.Value() }

// Pitch returns the current fractional MIDI key, which differs from Key while
// gliding.
func (v *Voice) Pitch() float64 { return v.pitch.Value() }

// Advance moves the velocity and pitch ramps one sample forward.
func (v *Voice) Advance() {
	v.velocity.Advance()
	v.pitch.Advance()
}

// AllEnded reports whether every operator envelope has reached Ended.
func (v *Voice) AllEnded() bool {
	for i := range v.Envelopes {
		if !v.Envelopes[i].Ended() {
			return false
		}
	}
	return true
}

// Random returns the next value of the voice's noise generator in [-1, 1].
func (v *Voice) Random() float64 {
	v.seed *= 16007
	return float64(int32(v.seed)) / -2147483648.0
}

// start (re)triggers the voice. A fresh voice also resets its phases and
// reseeds the noise generator so its output depends only on the note
// history, not on when the host called in.
func (v *Voice) start(fresh bool, press uint64) {
	for i := range v.Envelopes {
		v.Envelopes[i].Restart()
	}
	for i := range v.LFOs {
		v.LFOs[i].Restart()
	}
	if fresh {
		v.Phases = [param.NumOperators]float64{}
		v.seed = uint32(press)*2654435761 | 1
	}
	v.Active, v.pressed, v.age = true, true, press
}

func (v *Voice) setVelocity(vel uint8, ramp bool) {
	x := float64(min(vel, 127)) / 127
	if ramp {
		v.velocity.Set(x, VelocityInterpolationSamples)
		return
	}
	v.velocity.Snap(x)
}

func (v *Voice) deactivate() {
	v.Active, v.pressed = false, false
	for i := range v.LFOs {
		v.LFOs[i].RequestStop()
	}
}
