package voice

import (
	"math"

	"github.com/vsariola/fmsynth/param"
)

const NumVoices = 32

// StealPolicy decides what a note-on does when every slot is busy.
type StealPolicy uint8

const (
	// StealNone ignores the note.
	StealNone StealPolicy = iota
	// StealOldest retriggers the voice that was started first.
	StealOldest
)

type (
	// Pool is the fixed set of voice slots and the key state shared between
	// them.
	Pool struct {
		Voices [NumVoices]Voice
		Steal  StealPolicy

		held      [128]uint8 // held keys, most recent last
		numHeld   int
		presses   uint64
		lastPitch float64
		hasLast   bool
		bend      param.Interpolator
	}

	// Config carries the patch settings that affect note handling, resolved
	// by the caller from the processing parameters.
	Config struct {
		Monophonic     bool
		GlideMode      int
		GlideSeconds   float64
		GlideRetrigger bool
		SampleRate     float64
	}
)

func NewPool() *Pool {
	p := &Pool{}
	p.Reset()
	return p
}

// Reset silences every voice and forgets held keys.
func (p *Pool) Reset() {
	for i := range p.Voices {
		v := &p.Voices[i]
		*v = Voice{}
		for j := range v.Envelopes {
			v.Envelopes[j].Kill()
		}
	}
	p.numHeld, p.presses, p.hasLast = 0, 0, false
	p.bend.Snap(0)
}

// PressKey starts a note. Velocity and key are MIDI values; glide is optional.
func (p *Pool) PressKey(c *Config, velocity, key uint8, glide *Glide) {
	key &= 0x7f
	otherHeld := p.numHeld > 0
	p.presses++
	if c.Monophonic {
		p.pressMono(c, velocity, key, glide, otherHeld)
	} else {
		p.pressPoly(c, velocity, key, glide, otherHeld)
	}
	p.pushHeld(key)
}

func (p *Pool) pressPoly(c *Config, velocity, key uint8, glide *Glide, otherHeld bool) {
	v := p.sounding(key)
	if v == nil {
		v = p.free()
	}
	if v == nil {
		if p.Steal != StealOldest {
			return
		}
		v = p.oldest()
	}
	fresh := !v.Active || v.Key != key
	v.setVelocity(velocity, v.Active)
	v.Key = key
	v.start(fresh, p.presses)
	p.setPitch(v, c, key, glide, p.lastPitch, p.hasLast, otherHeld)
}

func (p *Pool) pressMono(c *Config, velocity, key uint8, glide *Glide, otherHeld bool) {
	v := &p.Voices[0]
	from, hasFrom := p.lastPitch, p.hasLast
	if v.Active {
		from, hasFrom = v.Pitch(), true
	}
	legato := v.Active && v.pressed
	v.setVelocity(velocity, v.Active)
	v.Key = key
	if legato && !c.GlideRetrigger {
		v.age = p.presses
	} else {
		v.start(!v.Active, p.presses)
	}
	p.setPitch(v, c, key, glide, from, hasFrom, otherHeld)
}

func (p *Pool) setPitch(v *Voice, c *Config, key uint8, glide *Glide, from float64, hasFrom, otherHeld bool) {
	switch {
	case glide != nil:
		target := glide.TargetKey & 0x7f
		v.pitch.Snap(float64(key))
		v.pitch.Set(float64(target), samples(glide.Seconds, c.SampleRate))
		p.lastPitch = float64(target)
		p.hasLast = true
		return
	case hasFrom && (c.GlideMode == param.GlideOn || c.GlideMode == param.GlideLegato && otherHeld):
		v.pitch.Snap(from)
		v.pitch.Set(float64(key), samples(c.GlideSeconds, c.SampleRate))
	default:
		v.pitch.Snap(float64(key))
	}
	p.lastPitch, p.hasLast = float64(key), true
}

// ReleaseKey releases a key. Voices keep sounding until their envelopes
// finish the release stage. In monophonic mode, releasing the sounding key
// while others are held returns to the most recently pressed held key.
func (p *Pool) ReleaseKey(c *Config, key uint8) {
	key &= 0x7f
	p.removeHeld(key)
	if c.Monophonic && p.numHeld > 0 {
		v := &p.Voices[0]
		if v.Active && v.pressed && v.Key == key {
			top := p.held[p.numHeld-1]
			v.Key = top
			p.setPitch(v, c, top, nil, v.Pitch(), true, true)
			return
		}
	}
	for i := range p.Voices {
		v := &p.Voices[i]
		if v.Active && v.pressed && v.Key == key {
			v.pressed = false
		}
	}
}

// Aftertouch moves the velocity of the voices playing key.
func (p *Pool) Aftertouch(key, velocity uint8) {
	key &= 0x7f
	for i := range p.Voices {
		if v := &p.Voices[i]; v.Active && v.Key == key {
			v.setVelocity(velocity, true)
		}
	}
}

// PitchBend sets the bend wheel position in [-1, 1]; NaN centers the wheel.
// The change is smoothed.
func (p *Pool) PitchBend(x float64) {
	if math.IsNaN(x) {
		x = 0
	}
	x = math.Max(-1, math.Min(1, x))
	p.bend.Set(x, param.InterpolationSamples)
}

// AdvanceBend moves the bend ramp one sample and returns the position.
func (p *Pool) AdvanceBend() float64 { return p.bend.Advance() }

func (p *Pool) Bend() float64 { return p.bend.Value() }

// DeactivateEnded flags voices whose envelopes have all ended as inactive and
// returns how many were flagged.
func (p *Pool) DeactivateEnded() int {
	n := 0
	for i := range p.Voices {
		if v := &p.Voices[i]; v.Active && v.AllEnded() {
			v.deactivate()
			n++
		}
	}
	return n
}

// ActiveCount returns the number of active voices.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.Voices {
		if p.Voices[i].Active {
			n++
		}
	}
	return n
}

func (p *Pool) sounding(key uint8) *Voice {
	for i := range p.Voices {
		if v := &p.Voices[i]; v.Active && v.Key == key {
			return v
		}
	}
	return nil
}

func (p *Pool) free() *Voice {
	for i := range p.Voices {
		if !p.Voices[i].Active {
			return &p.Voices[i]
		}
	}
	return nil
}

func (p *Pool) oldest() *Voice {
	o := &p.Voices[0]
	for i := range p.Voices {
		if p.Voices[i].age < o.age {
			o = &p.Voices[i]
		}
	}
	return o
}

func (p *Pool) pushHeld(key uint8) {
	p.removeHeld(key)
	p.held[p.numHeld] = key
	p.numHeld++
}

func (p *Pool) removeHeld(key uint8) {
	for i := 0; i < p.numHeld; i++ {
		if p.held[i] == key {
			copy(p.held[i:p.numHeld], p.held[i+1:p.numHeld])
			p.numHeld--
			return
		}
	}
}

func samples(seconds, rate float64) int {
	if !(seconds > 0) || !(rate > 0) {
		return 0
	}
	return int(min(seconds*rate+0.5, math.MaxInt32))
}
