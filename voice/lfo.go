package voice

import "github.com/vsariola/fmsynth/param"

type (
	LFOState uint8

	// LFO is one low-frequency oscillator of one voice. State changes never
	// make the output jump: restarting, stopping and shape changes ramp from
	// the last output over LFOInterpolationSamples samples.
	LFO struct {
		state LFOState
		from  float64
		done  int
		phase float64
		last  float64
		shape int
	}

	// LFOParams are the per-sample inputs of an LFO.
	LFOParams struct {
		Shape int
		Mode  int
		// Frequency in Hz, including the BPM factor of synced LFOs.
		Frequency float64
	}
)

const (
	LFOStopped LFOState = iota
	LFOInterpolating
	LFORunning
	LFOStopping
)

const LFOInterpolationSamples = 128

func (l *LFO) State() LFOState { return l.state }
func (l *LFO) Value() float64 { return l.last }

// Restart starts the LFO from phase 0, ramping from the last output (0 when
// it was stopped).
func (l *LFO) Restart() {
	if l.state == LFOStopped {
		l.last = 0
	}
	l.state, l.from, l.done, l.phase = LFOInterpolating, l.last, 0, 0
}

// RequestStop ramps the output to zero, after which the LFO is stopped.
func (l *LFO) RequestStop() {
	if l.state == LFOStopped || l.state == LFOStopping {
		return
	}
	l.state, l.from, l.done = LFOStopping, l.last, 0
}

// Advance moves the LFO one sample of dt seconds forward and returns its
// output in [-1, 1].
func (l *LFO) Advance(p *LFOParams, dt float64) float64 {
	if l.state == LFOStopped {
		return 0
	}
	l.phase += p.Frequency * dt
	if l.phase >= 1 {
		l.phase -= float64(int(l.phase))
		if l.state != LFOStopping {
			switch {
			case p.Mode == param.LFOOnce:
				l.RequestStop()
			case !ContinuousAtWrap(p.Shape):
				l.state, l.from, l.done = LFOInterpolating, l.last, 0
			}
		}
	}
	if p.Shape != l.shape {
		l.shape = p.Shape
		if l.state == LFORunning {
			l.state, l.from, l.done = LFOInterpolating, l.last, 0
		}
	}
	v := Shape(p.Shape, l.phase)
	switch l.state {
	case LFOInterpolating:
		l.done++
		t := float64(l.done) / LFOInterpolationSamples
		v = l.from + (v-l.from)*t
		if l.done >= LFOInterpolationSamples {
			l.state = LFORunning
		}
	case LFOStopping:
		l.done++
		v = l.from * (1 - float64(l.done)/LFOInterpolationSamples)
		if l.done >= LFOInterpolationSamples {
			l.state, v = LFOStopped, 0
		}
	}
	l.last = v
	return v
}
