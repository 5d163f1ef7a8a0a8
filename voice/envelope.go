// Package voice implements the per-note state of the synthesizer: envelopes,
// LFOs, voices and the fixed pool they live in. Everything here is owned by
// the audio thread and allocation-free after construction.
package voice

import (
	"math"

	"github.com/vsariola/fmsynth/param"
)

type (
	// Stage is the stage of an operator envelope.
	Stage uint8

	// Envelope is the volume envelope of one operator of one voice.
	Envelope struct {
		stage   Stage
		elapsed float64 // seconds since the last stage change
		start   float64 // volume at the last stage change
		last    float64
	}

	// EnvelopeTimes are the stage lengths in seconds and the sustain volume.
	EnvelopeTimes struct {
		Attack, Decay, Sustain, Release float64
	}
)

const (
	StageRestart Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
	StageEnded
)

const (
	// CurveTakeover is the stage length from which on the curve is fully
	// logarithmic. Shorter stages blend toward a straight line.
	CurveTakeover = 0.05
	// RestartDuration is the length of the ramp to zero that precedes every
	// attack.
	RestartDuration = param.EnvelopeMinDuration
)

var stageNames = [...]string{"restart", "attack", "decay", "sustain", "release", "ended"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// CalculateCurve returns the volume elapsed seconds into a stage moving from
// start to end in duration seconds. A non-positive duration has already
// completed and returns end.
func CalculateCurve(start, end, elapsed, duration float64) float64 {
	if duration <= 0 {
		return end
	}
	progress := elapsed / duration
	if progress > 1 {
		progress = 1
	} else if progress < 0 {
		progress = 0
	}
	curve := math.Min(1, duration/CurveTakeover)
	shaped := math.Log10(1 + 9*progress)
	v := start + (end-start)*(curve*shaped+(1-curve)*progress)
	// rounding must not overshoot either end
	lo, hi := math.Min(start, end), math.Max(start, end)
	return math.Max(lo, math.Min(hi, v))
}

// Restart re-enters the Restart stage from the current volume, so a
// retriggered note fades out before the new attack instead of jumping.
func (e *Envelope) Restart() {
	e.enter(StageRestart)
}

// Kill ends the envelope immediately.
func (e *Envelope) Kill() {
	e.stage, e.elapsed, e.start, e.last = StageEnded, 0, 0, 0
}

func (e *Envelope) Stage() Stage { return e.stage }
func (e *Envelope) Ended() bool { return e.stage == StageEnded }
func (e *Envelope) Volume() float64 { return e.last }

// Advance moves the envelope dt seconds forward and returns the new volume.
func (e *Envelope) Advance(pressed bool, t *EnvelopeTimes, dt float64) float64 {
	if e.stage == StageEnded {
		return 0
	}
	if !pressed && e.stage < StageRelease {
		e.enter(StageRelease)
	} else {
		e.elapsed += dt
		switch e.stage {
		case StageRestart:
			if e.elapsed >= RestartDuration {
				e.enter(StageAttack)
			}
		case StageAttack:
			if e.elapsed >= t.Attack {
				e.enter(StageDecay)
			}
		case StageDecay:
			if e.elapsed >= t.Decay {
				e.enter(StageSustain)
			}
		case StageRelease:
			if e.elapsed >= t.Release {
				e.Kill()
				return 0
			}
		}
	}
	switch e.stage {
	case StageRestart:
		e.last = CalculateCurve(e.start, 0, e.elapsed, RestartDuration)
	case StageAttack:
		e.last = CalculateCurve(e.start, 1, e.elapsed, t.Attack)
	case StageDecay:
		e.last = CalculateCurve(e.start, t.Sustain, e.elapsed, t.Decay)
	case StageSustain:
		e.last = t.Sustain
	case StageRelease:
		e.last = CalculateCurve(e.start, 0, e.elapsed, t.Release)
	}
	return e.last
}

func (e *Envelope) enter(s Stage) {
	e.stage, e.elapsed, e.start = s, 0, e.last
}
