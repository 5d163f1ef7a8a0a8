package param

import (
	"math/bits"

	approx "github.com/cwbudde/algo-approx"
)

// InterpolationSamples is the length of the ramp used when an interpolated
// parameter changes.
const InterpolationSamples = 64

// Processing holds the audio-domain view of the patch on the audio thread.
// Interpolated parameters move to a new value over InterpolationSamples calls
// of Advance; the others change instantly. The patch value is ramped along
// with the audio value so LFO additions, which work in patch space, follow
// the same ramp.
//
// Processing is owned by the audio thread and must not be shared.
type Processing struct {
	patch     [Count]float32
	patchNow  [Count]float32
	patchInc  [Count]float32
	value     [Count]float64
	target    [Count]float64
	inc       [Count]float64
	remaining [Count]uint8
	moving    Bits
	changes   uint64
}

// NewProcessing returns the default patch with every value settled.
func NewProcessing() *Processing {
	p := &Processing{}
	for i := range Table {
		p.patch[i] = Table[i].Default
		p.target[i] = Table[i].Map(Table[i].Default)
	}
	p.Reset()
	return p
}

// Set changes the patch value of parameter i. Interpolated parameters start a
// ramp from wherever they currently are.
func (p *Processing) Set(i uint8, v float32) {
	if int(i) >= Count {
		return
	}
	v = Clamp(v)
	p.changes++
	p.patch[i] = v
	p.target[i] = Table[i].Map(v)
	if !Table[i].Kind.Interpolated() {
		p.patchNow[i], p.value[i] = v, p.target[i]
		return
	}
	p.remaining[i] = InterpolationSamples
	p.inc[i] = (p.target[i] - p.value[i]) / InterpolationSamples
	p.patchInc[i] = (v - p.patchNow[i]) / InterpolationSamples
	p.moving.Set(i)
}

// Advance moves every ramping parameter one sample forward. Its cost is
// proportional to the number of ramping parameters.
func (p *Processing) Advance() {
	if p.moving.Empty() {
		return
	}
	p.changes++
	for w := range p.moving {
		word := p.moving[w]
		for word != 0 {
			i := uint8(w<<6) | uint8(bits.TrailingZeros64(word))
			word &= word - 1
			p.remaining[i]--
			if p.remaining[i] == 0 {
				p.value[i], p.patchNow[i] = p.target[i], p.patch[i]
				p.moving.Clear(i)
				continue
			}
			p.value[i] += p.inc[i]
			p.patchNow[i] += p.patchInc[i]
		}
	}
}

// Value returns the current audio value of parameter i.
func (p *Processing) Value(i uint8) float64 { return p.value[i] }

// Patch returns the patch value last set for parameter i.
func (p *Processing) Patch(i uint8) float32 { return p.patch[i] }

// Step returns the step index selected by a stepped parameter.
func (p *Processing) Step(i uint8) int {
	return StepIndex(p.patch[i], len(Table[i].Steps))
}

// ValueWithAddition returns the value of parameter i modulated by an LFO
// addition.
func (p *Processing) ValueWithAddition(i uint8, addition float64) float64 {
	return modulate(i, p.value[i], p.patchNow[i], addition)
}

// Snapshot copies the current values into s.
func (p *Processing) Snapshot(s *Snapshot) {
	s.Value, s.Patch = p.value, p.patchNow
}

// Reset ends every ramp at its target.
func (p *Processing) Reset() {
	for i := range p.value {
		p.value[i], p.patchNow[i], p.remaining[i] = p.target[i], p.patch[i], 0
	}
	p.moving = Bits{}
	p.changes++
}

// Changes counts the calls that modified any value or patch value. Two equal
// counts mean that a Snapshot taken in between would be identical.
func (p *Processing) Changes() uint64 { return p.changes }

// Moving returns the number of parameters currently ramping.
func (p *Processing) Moving() int { return p.moving.Len() }

// Pow2 approximates 2^x.
func Pow2(x float64) float64 {
	const ln2 = 0.69314718055994530942
	return float64(approx.FastExp(float32(x * ln2)))
}
