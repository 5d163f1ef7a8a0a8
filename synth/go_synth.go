// Package synth renders the FM operator network of every active voice. It
// ties together the parameter store written by the host, the processing
// layer and the voice pool owned by the audio thread, and one of the simd
// backends.
package synth

import (
	"fmt"
	"math"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/voice"
)

type (
	// GoSynth is the pure-Go implementation of fmsynth.Synth.
	GoSynth struct {
		store   *param.Store
		proc    *param.Processing
		pool    *voice.Pool
		backend simd.Backend
		config  voice.Config
		dt      float64
		bpm     float64
		apply   func(i uint8, v float32)

		// patch state, rederived only when the processing layer changes
		states       [2]frameState
		lastState    int
		hasState     bool
		stateChanges uint64

		// per-pass scratch, sized for the widest backend
		frames [simd.MaxLanes / 2]*frameState
		bends  [simd.MaxLanes / 2]float64 // semitones
		adds   additions
		ops    [param.NumOperators]opLanes
		left   []float32
		right  []float32
	}

	// GoSynther creates GoSynths using a fixed backend, or the best one the
	// CPU supports when Detect is set.
	GoSynther struct {
		Backend simd.Backend
		Detect  bool
	}
)

func (s GoSynther) Name() string {
	if s.Detect {
		return "Go (" + simd.Best().String() + ")"
	}
	return "Go (" + s.Backend.String() + ")"
}

func (s GoSynther) Synth(sampleRate float64) (fmsynth.Synth, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return nil, fmt.Errorf("invalid sample rate %v", sampleRate)
	}
	if s.Detect {
		return New(sampleRate), nil
	}
	return NewWithBackend(sampleRate, s.Backend), nil
}

// New returns a synth using the best backend of the running CPU.
func New(sampleRate float64) *GoSynth {
	return NewWithBackend(sampleRate, simd.Best())
}

// NewWithBackend returns a synth rendering with the given backend. Backends
// produce the same note handling; only the sine approximation differs
// between Fallback and the vectorized ones.
func NewWithBackend(sampleRate float64, b simd.Backend) *GoSynth {
	s := &GoSynth{
		store:   param.NewStore(),
		proc:    param.NewProcessing(),
		pool:    voice.NewPool(),
		backend: b,
		bpm:     fmsynth.DefaultBPM,
	}
	s.apply = s.proc.Set
	s.SetSampleRate(sampleRate)
	return s
}

func (s *GoSynth) Backend() simd.Backend { return s.backend }

// Store returns the parameter store, which may be shared with other
// goroutines.
func (s *GoSynth) Store() *param.Store { return s.store }

// Pool exposes the voice pool, e.g. to change the steal policy. It belongs
// to the audio thread.
func (s *GoSynth) Pool() *voice.Pool { return s.pool }

func (s *GoSynth) SetPatchValue(index uint8, v float32) { s.store.Set(index, v) }
func (s *GoSynth) PatchValue(index uint8) float32 { return s.store.Get(index) }

// SetSampleRate changes the sample rate. Rates that are not positive and
// finite are ignored.
func (s *GoSynth) SetSampleRate(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return
	}
	s.config.SampleRate = rate
	s.dt = 1 / rate
}

// SetBPM sets the tempo used by BPM-synced LFOs and glides. Tempos that are
// not positive and finite are ignored.
func (s *GoSynth) SetBPM(bpm float64) {
	if bpm > 0 && !math.IsInf(bpm, 1) {
		s.bpm = bpm
	}
}

// Reset silences every voice and ends all parameter ramps.
func (s *GoSynth) Reset() {
	s.pool.Reset()
	s.proc.Reset()
}

// Process renders len(left) frames (or len(right) if shorter) into left and
// right, overwriting their contents. Events are sorted by frame in place;
// each event is applied before the frame it is stamped with.
func (s *GoSynth) Process(left, right []float32, events []fmsynth.NoteEvent) {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]
	s.store.Drain(s.apply)
	fmsynth.SortEvents(events)
	pos := 0
	for i := range events {
		f := max(pos, min(events[i].Frame, n))
		s.render(left[pos:f], right[pos:f])
		pos = f
		s.pool.DeactivateEnded()
		s.handle(&events[i])
	}
	s.render(left[pos:], right[pos:])
	s.pool.DeactivateEnded()
}

// Render is Process for an interleaved buffer.
func (s *GoSynth) Render(buffer fmsynth.AudioBuffer, events []fmsynth.NoteEvent) {
	if cap(s.left) < len(buffer) {
		s.left, s.right = make([]float32, len(buffer)), make([]float32, len(buffer))
	}
	left, right := s.left[:len(buffer)], s.right[:len(buffer)]
	s.Process(left, right, events)
	buffer.Join(left, right)
}

func (s *GoSynth) render(left, right []float32) {
	if len(left) == 0 {
		return
	}
	switch s.backend {
	case simd.BackendAVX:
		renderFrames[simd.AVX](s, left, right)
	case simd.BackendSSE2:
		renderFrames[simd.SSE2](s, left, right)
	default:
		renderFrames[simd.Fallback](s, left, right)
	}
}

func (s *GoSynth) handle(e *fmsynth.NoteEvent) {
	c := s.noteConfig()
	switch e.Kind {
	case fmsynth.NoteOn:
		if e.Velocity == 0 {
			s.pool.ReleaseKey(c, e.Key)
			return
		}
		var g *voice.Glide
		if e.Glide != nil {
			g = &voice.Glide{TargetKey: e.Glide.TargetKey, Seconds: e.Glide.Seconds}
		}
		s.pool.PressKey(c, e.Velocity, e.Key, g)
	case fmsynth.NoteOff:
		s.pool.ReleaseKey(c, e.Key)
	case fmsynth.Aftertouch:
		s.pool.Aftertouch(e.Key, e.Velocity)
	case fmsynth.PitchBend:
		s.pool.PitchBend(float64(e.Bend))
	}
}

// noteConfig resolves the note handling parameters for the next event.
func (s *GoSynth) noteConfig() *voice.Config {
	c := &s.config
	c.Monophonic = s.proc.Step(param.VoiceMode) == param.Monophonic
	c.GlideMode = s.proc.Step(param.GlideActive)
	c.GlideSeconds = s.proc.Value(param.GlideTime)
	if s.proc.Step(param.GlideBpmSync) == 1 {
		c.GlideSeconds *= 120 / s.bpm
	}
	c.GlideRetrigger = s.proc.Step(param.GlideRetrigger) == 1
	return c
}
