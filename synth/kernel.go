package synth

import (
	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/simd"
	"github.com/vsariola/fmsynth/voice"
)

// renderFrames renders left and right in passes of as many samples as one
// lane value holds. A remainder shorter than a pass is rendered with the
// one-sample SSE2 kernel, which matches AVX bit for bit.
func renderFrames[T simd.Lane[T]](s *GoSynth, left, right []float32) {
	var zero T
	n := zero.Samples()
	i := 0
	for ; i+n <= len(left); i += n {
		renderPass[T](s, left[i:i+n], right[i:i+n])
	}
	for ; i < len(left); i++ {
		renderPass[simd.SSE2](s, left[i:i+1], right[i:i+1])
	}
}

func renderPass[T simd.Lane[T]](s *GoSynth, left, right []float32) {
	samples := len(left)
	for k := 0; k < samples; k++ {
		s.advanceGlobals(k)
	}
	var mix [simd.MaxLanes]float64
	for i := range s.pool.Voices {
		if v := &s.pool.Voices[i]; v.Active {
			renderVoice[T](s, v, samples, &mix)
		}
	}
	for k := 0; k < samples; k++ {
		left[k], right[k] = float32(mix[2*k]), float32(mix[2*k+1])
	}
}

// renderVoice adds one voice to mix. Operators run from the last to the
// first so every modulator is done before the operators it modulates.
func renderVoice[T simd.Lane[T]](s *GoSynth, v *voice.Voice, samples int, mix *[simd.MaxLanes]float64) {
	var gain [simd.MaxLanes]float64
	alive := s.prepareVoice(v, samples, &gain)
	if alive == 0 {
		return
	}
	var zero T
	var inputs [param.NumOperators]T
	for o := range inputs {
		inputs[o] = zero.Zero()
	}
	out := zero.Zero()
	for o := param.NumOperators - 1; o >= 0; o-- {
		ln := &s.ops[o]
		sig := operatorSignal(ln, inputs[o], alive)
		sig = sig.Mul(zero.Load(ln.pan)).Mul(zero.Load(ln.volume))
		additive := sig.Mul(zero.Load(ln.additive))
		out = out.Add(additive)
		if o == 0 {
			break
		}
		mod := sig.Sub(additive)
		for target := 0; target < o; target++ {
			var mask [simd.MaxLanes]float64
			routed := false
			for k := 0; k < alive; k++ {
				if ln.targets[2*k].Has(target) {
					mask[2*k], mask[2*k+1] = 1, 1
					routed = true
				}
			}
			if routed {
				inputs[target] = inputs[target].Add(mod.Mul(zero.Load(mask)))
			}
		}
	}
	out = out.Mul(zero.Load(gain)).Max(zero.Splat(-1)).Min(zero.Splat(1))
	res := out.Store()
	for i := 0; i < 2*alive; i++ {
		mix[i] += res[i]
	}
}

// operatorSignal returns the envelope-scaled signal of one operator given
// its modulation input.
func operatorSignal[T simd.Lane[T]](ln *opLanes, in T, alive int) T {
	var zero T
	sine, feedback, panned := false, false, false
	for k := 0; k < alive; k++ {
		switch ln.kind[2*k] {
		case sampleSine:
			sine = true
		case sampleSineFeedback:
			sine, feedback = true, true
		}
		if ln.tendency[2*k] != 0 {
			panned = true
		}
	}
	var res [simd.MaxLanes]float64
	if sine {
		phase := zero.Load(ln.phase)
		if panned {
			// pull the modulation input toward mono as the operator is panned
			// away from center
			t := zero.Load(ln.tendency)
			mono := in.PairwiseSum().Mul(zero.Splat(0.5))
			in = in.Mul(zero.Splat(1).Sub(t)).Add(mono.Mul(t))
		}
		if feedback {
			in = in.Add(zero.Load(ln.feedback).Mul(phase.Sin()))
		}
		arg := phase.Add(zero.Load(ln.modIndex).Mul(in))
		res = zero.Load(ln.envelope).Mul(arg.Sin()).Store()
	}
	for k := 0; k < alive; k++ {
		switch ln.kind[2*k] {
		case sampleNoise:
			res[2*k], res[2*k+1] = ln.noise[2*k], ln.noise[2*k+1]
		case sampleSilent:
			res[2*k], res[2*k+1] = 0, 0
		}
	}
	return zero.Load(res)
}
