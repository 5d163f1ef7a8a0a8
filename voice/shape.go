package voice

import (
	"math"

	"github.com/vsariola/fmsynth/param"
)

// Shape evaluates LFO shape s at phase in [0, 1). Reverse shapes are the
// negation of their forward shape.
func Shape(s int, phase float64) float64 {
	switch s {
	case param.ShapeSaw:
		return saw(phase)
	case param.ShapeReverseSaw:
		return -saw(phase)
	case param.ShapeTriangle:
		return triangle(phase)
	case param.ShapeReverseTriangle:
		return -triangle(phase)
	case param.ShapeSquare:
		return square(phase)
	case param.ShapeReverseSquare:
		return -square(phase)
	case param.ShapeSine:
		return sine(phase)
	case param.ShapeReverseSine:
		return -sine(phase)
	}
	return 0
}

// ContinuousAtWrap reports whether shape s has the same value on both sides
// of the phase wrap, so a running LFO can keep going without a ramp.
func ContinuousAtWrap(s int) bool {
	return s != param.ShapeSquare && s != param.ShapeReverseSquare
}

func saw(p float64) float64 {
	if p < 0.5 {
		return 2 * p
	}
	return 2*p - 2
}

func triangle(p float64) float64 {
	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	}
	return 4*p - 4
}

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func sine(p float64) float64 {
	return math.Sin(2 * math.Pi * p)
}
