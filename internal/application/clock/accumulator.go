// Package clock bridges the variable sampling clock and the fixed physics
// clock.
package clock

import "math"

// eps absorbs float drift so a frame of exactly one step always fires
const eps = 1e-9

// Accumulator turns variable frame durations into a whole number of fixed
// physics steps. Leftover time carries into the next frame.
type Accumulator struct {
	step     float64
	maxSteps int
	pending  float64
	dropped  int
}

// NewAccumulator creates an accumulator for the given tick rate. At most
// maxSteps steps are produced per frame; time beyond that is dropped.
func NewAccumulator(tickRate, maxSteps int) *Accumulator {
	return &Accumulator{
		step:     1.0 / float64(tickRate),
		maxSteps: max(1, maxSteps),
	}
}

// Step returns the fixed step duration in seconds
func (a *Accumulator) Step() float64 {
	return a.step
}

// Advance adds a frame of dt seconds and returns the number of physics
// steps to run now
func (a *Accumulator) Advance(dt float64) int {
	if dt > 0 {
		a.pending += dt
	}

	n := 0
	for a.pending+eps >= a.step && n < a.maxSteps {
		a.pending -= a.step
		n++
	}
	a.pending = max(0, a.pending)

	if a.pending+eps >= a.step {
		over := math.Floor((a.pending + eps) / a.step)
		a.dropped += int(over)
		a.pending = max(0, a.pending-over*a.step)
	}
	return n
}

// Alpha returns the fraction of a step left pending, for render
// interpolation
func (a *Accumulator) Alpha() float64 {
	return a.pending / a.step
}

// Dropped returns how many steps were discarded by the per-frame cap
func (a *Accumulator) Dropped() int {
	return a.dropped
}

// Reset discards pending time
func (a *Accumulator) Reset() {
	a.pending = 0
}
