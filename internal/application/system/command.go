package system

import "math"

// Commands is what the physics step reads from the queue
type Commands struct {
	Jump bool
	Roll bool
	Axis float64
}

// CommandQueue latches jump/roll requests between the sampling clock and
// the physics clock. Requests are flags, not counters.
type CommandQueue struct {
	jump bool
	roll bool
	axis float64
}

// RequestJump latches a jump for the next physics step
func (q *CommandQueue) RequestJump() {
	q.jump = true
}

// RequestRoll latches a roll for the next physics step
func (q *CommandQueue) RequestRoll() {
	q.roll = true
}

// SetAxis stores the latest horizontal input, clamped to [-1, 1]
func (q *CommandQueue) SetAxis(axis float64) {
	if math.IsNaN(axis) {
		axis = 0
	}
	q.axis = max(-1, min(1, axis))
}

// Peek returns the pending commands without clearing them
func (q *CommandQueue) Peek() Commands {
	return Commands{Jump: q.jump, Roll: q.roll, Axis: q.axis}
}

// Clear drops both latches. The axis is level-triggered and survives.
func (q *CommandQueue) Clear() {
	q.jump = false
	q.roll = false
}

// Reset drops latches and axis
func (q *CommandQueue) Reset() {
	*q = CommandQueue{}
}
