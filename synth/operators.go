package synth

import (
	"math"

	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/voice"
)

const (
	// VoiceVolumeFactor scales every voice so a handful of full-volume notes
	// stay below clipping.
	VoiceVolumeFactor = 0.1
	// SkipThreshold is the operator or envelope volume below which an
	// operator produces no signal and no modulation.
	SkipThreshold = 1e-5
	// FeedbackThreshold is the feedback amount below which feedback is not
	// computed.
	FeedbackThreshold = 1e-5
)

type (
	// frameState is the patch state shared by every voice at one sample. A
	// new one is only derived when the processing layer has changed.
	frameState struct {
		snap     param.Snapshot
		waves    [param.NumOperators]int
		targets  [param.NumOperators]param.TargetSet
		times    [param.NumOperators]voice.EnvelopeTimes
		lfoShape [param.NumLFOs]int
		lfoMode  [param.NumLFOs]int
		lfoSync  [param.NumLFOs]bool
		lfoParam [param.NumLFOs]uint8
	}

	// opLanes collects the scalar inputs of one operator for every sample of
	// a pass, laid out the way the lanes load them.
	opLanes struct {
		phase    [simd.MaxLanes]float64 // radians
		envelope [simd.MaxLanes]float64
		volume   [simd.MaxLanes]float64
		pan      [simd.MaxLanes]float64 // left and right gain
		tendency [simd.MaxLanes]float64 // 0 centered, 1 hard panned
		additive [simd.MaxLanes]float64
		modIndex [simd.MaxLanes]float64
		feedback [simd.MaxLanes]float64
		targets  [simd.MaxLanes]param.TargetSet
		noise    [simd.MaxLanes]float64 // noise already scaled by the envelope
		kind     [simd.MaxLanes]sampleKind
	}

	sampleKind uint8

	// additions are the LFO outputs of one voice at one sample, summed per
	// target parameter.
	additions struct {
		n       int
		touched [param.NumLFOs]uint8
		values  [param.Count]float64
	}
)

const (
	sampleSine sampleKind = iota
	sampleSineFeedback
	sampleNoise
	sampleSilent
)

func (a *additions) get(i uint8) float64 { return a.values[i] }

func (a *additions) add(i uint8, v float64) {
	a.touched[a.n] = i
	a.n++
	a.values[i] += v
}

func (a *additions) reset() {
	for _, i := range a.touched[:a.n] {
		a.values[i] = 0
	}
	a.n = 0
}

// advanceGlobals moves the processing layer and the pitch bend one sample
// forward and records the state for sample k of the pass.
func (s *GoSynth) advanceGlobals(k int) {
	s.proc.Advance()
	if !s.hasState || s.proc.Changes() != s.stateChanges {
		// the other buffer is never referenced by an earlier sample of the pass
		s.lastState ^= 1
		s.deriveState(&s.states[s.lastState])
		s.hasState, s.stateChanges = true, s.proc.Changes()
	}
	f := &s.states[s.lastState]
	s.frames[k] = f
	bend := s.pool.AdvanceBend()
	if bend >= 0 {
		s.bends[k] = bend * f.snap.Value[param.PitchBendRangeUp]
	} else {
		s.bends[k] = bend * f.snap.Value[param.PitchBendRangeDown]
	}
}

func (s *GoSynth) deriveState(f *frameState) {
	s.proc.Snapshot(&f.snap)
	snap := &f.snap
	for o, idx := range param.Operators {
		f.waves[o] = param.StepIndex(snap.Patch[idx.WaveType], 2)
		if idx.ModTargets != param.None {
			f.targets[o] = param.Targets(o, snap.Patch[idx.ModTargets])
		}
		f.times[o] = voice.EnvelopeTimes{
			Attack:  snap.Value[idx.Attack],
			Decay:   snap.Value[idx.Decay],
			Sustain: snap.Value[idx.Sustain],
			Release: snap.Value[idx.Release],
		}
	}
	for l, idx := range param.LFOs {
		f.lfoShape[l] = int(snap.Value[idx.Shape])
		f.lfoMode[l] = int(snap.Value[idx.Mode])
		f.lfoSync[l] = snap.Value[idx.BpmSync] == 1
		targets := param.LFOTargets[l]
		f.lfoParam[l] = targets[param.StepIndex(snap.Patch[idx.Target], len(targets))].Param
	}
}

// prepareVoice advances voice v by the samples of a pass and fills s.ops with
// the operator inputs. It returns the per-sample voice gain and the number
// of samples the voice is alive for; samples after that produce nothing.
func (s *GoSynth) prepareVoice(v *voice.Voice, samples int, gain *[simd.MaxLanes]float64) int {
	lfoBpm := s.bpm / 120
	adds := &s.adds
	for k := 0; k < samples; k++ {
		if v.AllEnded() {
			return k
		}
		f := s.frames[k]
		snap := &f.snap
		v.Advance()
		adds.reset()
		// higher LFOs may modulate lower ones, so they go first
		for l := param.NumLFOs - 1; l >= 0; l-- {
			if v.LFOs[l].State() == voice.LFOStopped {
				continue
			}
			idx := param.LFOs[l]
			freq := snap.ValueWithAddition(idx.FrequencyRatio, adds.get(idx.FrequencyRatio)) *
				snap.ValueWithAddition(idx.FrequencyFree, adds.get(idx.FrequencyFree))
			if f.lfoSync[l] {
				freq *= lfoBpm
			}
			p := voice.LFOParams{Shape: f.lfoShape[l], Mode: f.lfoMode[l], Frequency: freq}
			out := v.LFOs[l].Advance(&p, s.dt)
			if f.lfoParam[l] == param.None {
				continue
			}
			amount := snap.ValueWithAddition(idx.Amount, adds.get(idx.Amount)) * snap.Value[idx.Active]
			adds.add(f.lfoParam[l], out*amount)
		}
		masterVolume := snap.ValueWithAddition(param.MasterVolume, adds.get(param.MasterVolume))
		masterFrequency := snap.ValueWithAddition(param.MasterFrequency, adds.get(param.MasterFrequency))
		keyFrequency := masterFrequency * math.Exp2((v.Pitch()-69+s.bends[k])/12)
		for o := param.NumOperators - 1; o >= 0; o-- {
			s.prepareOperator(v, o, k, keyFrequency)
		}
		gain[2*k] = VoiceVolumeFactor * v.Velocity() * masterVolume
		gain[2*k+1] = gain[2*k]
	}
	return samples
}

func (s *GoSynth) prepareOperator(v *voice.Voice, o, k int, keyFrequency float64) {
	f, adds := s.frames[k], &s.adds
	snap := &f.snap
	idx := &param.Operators[o]
	ln := &s.ops[o]
	l, r := 2*k, 2*k+1

	env := v.Envelopes[o].Advance(v.Pressed(), &f.times[o], s.dt)
	freq := keyFrequency *
		snap.ValueWithAddition(idx.FrequencyRatio, adds.get(idx.FrequencyRatio)) *
		snap.ValueWithAddition(idx.FrequencyFree, adds.get(idx.FrequencyFree)) *
		snap.ValueWithAddition(idx.FrequencyFine, adds.get(idx.FrequencyFine))
	phase := v.Phases[o] + freq*s.dt
	phase -= math.Floor(phase)
	v.Phases[o] = phase
	pan := snap.ValueWithAddition(idx.Panning, adds.get(idx.Panning))

	kind := sampleSilent
	var volume, additive, modIndex, feedback, noise float64
	// a deactivated operator keeps its phase and envelope running but
	// contributes nothing
	if active := snap.Value[idx.Active]; active != 0 {
		volume = snap.ValueWithAddition(idx.Volume, adds.get(idx.Volume)) * active
		additive = 1.0
		if idx.MixOut != param.None {
			additive = snap.ValueWithAddition(idx.MixOut, adds.get(idx.MixOut))
		}
		modIndex = snap.ValueWithAddition(idx.ModIndex, adds.get(idx.ModIndex))
		feedback = snap.ValueWithAddition(idx.Feedback, adds.get(idx.Feedback))
		switch {
		case volume < SkipThreshold || env < SkipThreshold:
		case f.waves[o] == param.WaveNoise:
			kind = sampleNoise
			noise = env * v.Random()
		case feedback > FeedbackThreshold:
			kind = sampleSineFeedback
		default:
			kind = sampleSine
		}
		if kind != sampleSineFeedback {
			feedback = 0
		}
	}

	ln.phase[l], ln.phase[r] = phase*2*math.Pi, phase*2*math.Pi
	ln.envelope[l], ln.envelope[r] = env, env
	ln.volume[l], ln.volume[r] = volume, volume
	ln.pan[l], ln.pan[r] = min(1, 2*(1-pan)), min(1, 2*pan)
	t := math.Abs(pan-0.5) * 2
	ln.tendency[l], ln.tendency[r] = t, t
	ln.additive[l], ln.additive[r] = additive, additive
	ln.modIndex[l], ln.modIndex[r] = modIndex, modIndex
	ln.feedback[l], ln.feedback[r] = feedback, feedback
	ln.targets[l], ln.targets[r] = f.targets[o], f.targets[o]
	ln.noise[l], ln.noise[r] = noise, noise
	ln.kind[l], ln.kind[r] = kind, kind
}
