package param

import "math"

// Kind selects how a patch value maps to its audio value.
type Kind uint8

const (
	KindVolume        Kind = iota // 2p, shown in dB
	KindActive                    // 1 if p >= 0.5
	KindLinear                    // p
	KindPanning                   // p, 0.5 is center
	KindModIndex                  // 8πp²
	KindFrequencyFree             // 2^(8p-4) multiplier
	KindFrequencyFine             // 2^((2p-1)/12) multiplier
	KindDuration                  // envelope stage length in seconds
	KindGlideTime                 // 5p² seconds
	KindLFOFrequency              // 2^(8p-4) Hz
	KindAmount                    // 2p
	KindSteps                     // Steps[floor(p*len(Steps))].Value
)

const (
	EnvelopeMinDuration = 0.004
	EnvelopeMaxDuration = 4.0
	GlideMaxTime        = 5.0
)

// Interpolated reports whether changes of the value are smoothed over
// InterpolationSamples samples instead of taking effect instantly.
func (k Kind) Interpolated() bool {
	switch k {
	case KindVolume, KindActive, KindLinear, KindPanning, KindModIndex, KindAmount:
		return true
	}
	return false
}

// Map converts patch value v to the audio value of the parameter.
func (p *Parameter) Map(v float32) float64 {
	x := float64(Clamp(v))
	switch p.Kind {
	case KindVolume, KindAmount:
		return 2 * x
	case KindActive:
		if x >= 0.5 {
			return 1
		}
		return 0
	case KindLinear, KindPanning:
		return x
	case KindModIndex:
		return 8 * math.Pi * x * x
	case KindFrequencyFree, KindLFOFrequency:
		return math.Exp2(8*x - 4)
	case KindFrequencyFine:
		return math.Exp2((2*x - 1) / 12)
	case KindDuration:
		return EnvelopeMinDuration + (EnvelopeMaxDuration-EnvelopeMinDuration)*x*x
	case KindGlideTime:
		return GlideMaxTime * x * x
	case KindSteps:
		return p.Steps[StepIndex(v, len(p.Steps))].Value
	}
	return x
}

// Unmap is the inverse of Map. Stepped parameters return the center of the
// step whose value is closest to a. The result is clamped to [0, 1].
func (p *Parameter) Unmap(a float64) float32 {
	var x float64
	switch p.Kind {
	case KindVolume, KindAmount:
		x = a / 2
	case KindActive:
		if a >= 0.5 {
			return 1
		}
		return 0
	case KindLinear, KindPanning:
		x = a
	case KindModIndex:
		x = math.Sqrt(math.Max(a, 0) / (8 * math.Pi))
	case KindFrequencyFree, KindLFOFrequency:
		x = (math.Log2(a) + 4) / 8
	case KindFrequencyFine:
		x = (12*math.Log2(a) + 1) / 2
	case KindDuration:
		x = math.Sqrt(math.Max(a-EnvelopeMinDuration, 0) / (EnvelopeMaxDuration - EnvelopeMinDuration))
	case KindGlideTime:
		x = math.Sqrt(math.Max(a, 0) / GlideMaxTime)
	case KindSteps:
		best := 0
		for i, s := range p.Steps {
			if math.Abs(s.Value-a) < math.Abs(p.Steps[best].Value-a) {
				best = i
			}
		}
		return StepPatch(best, len(p.Steps))
	default:
		x = a
	}
	return Clamp(float32(x))
}

// Default returns the audio value of parameter i's default patch value.
func Default(i uint8) float64 {
	return Table[i].Map(Table[i].Default)
}
