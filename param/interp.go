package param

// Interpolator ramps linearly from its current value to a target over a
// fixed number of steps. The zero value sits at 0 with nothing to do.
type Interpolator struct {
	value, target, inc float64
	remaining          int
}

// Set starts a ramp to target lasting steps calls of Advance. steps <= 0
// jumps immediately.
func (in *Interpolator) Set(target float64, steps int) {
	in.target = target
	if steps <= 0 || in.value == target {
		in.value, in.remaining = target, 0
		return
	}
	in.remaining = steps
	in.inc = (target - in.value) / float64(steps)
}

// Snap jumps to v and cancels any ramp.
func (in *Interpolator) Snap(v float64) {
	in.value, in.target, in.remaining = v, v, 0
}

// Advance moves one step and returns the new value. The last step lands
// exactly on the target.
func (in *Interpolator) Advance() float64 {
	if in.remaining > 0 {
		in.remaining--
		if in.remaining == 0 {
			in.value = in.target
		} else {
			in.value += in.inc
		}
	}
	return in.value
}

func (in *Interpolator) Value() float64 { return in.value }
func (in *Interpolator) Target() float64 { return in.target }
func (in *Interpolator) Done() bool { return in.remaining == 0 }
