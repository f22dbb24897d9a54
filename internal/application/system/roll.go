package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// RollSystem runs the timed roll and owns the collider swap
type RollSystem struct {
	config   config.RollConfig
	collider Collider
}

// NewRollSystem creates a new roll system
func NewRollSystem(cfg config.RollConfig, collider Collider) *RollSystem {
	return &RollSystem{config: cfg, collider: collider}
}

// Start begins a roll if one was requested and the latch allows it
func (r *RollSystem) Start(s *stepState) {
	rt := &s.ch.Roll
	if !s.roll || !rt.CanRoll {
		return
	}
	s.roll = false
	rt.CanRoll = false
	rt.Remaining = r.config.Duration
	rt.Forced = false
	r.shrink(s)
	s.report.RollStarted = true
}

// Apply drives the roll velocity, extends the roll downhill and counts the
// timer down
func (r *RollSystem) Apply(s *stepState) {
	ch := s.ch
	rt := &ch.Roll
	if !rt.Rolling() {
		return
	}

	speed := r.config.Velocity * rt.Remaining / r.config.Duration
	tangent := cp.Vector{X: 1}
	if s.grounded {
		tangent = ch.Ground.Normal.ReversePerp().Normalize()
	}
	rollVec := tangent.Mult(float64(rt.Dir) * speed)

	s.vel.X += rollVec.X
	speedCap := math.Abs(rollVec.X)
	s.vel.X = clamp(s.vel.X, -speedCap, speedCap)
	// vertical roll motion is an offset and does not persist
	s.offset.Y += rollVec.Y * s.dt

	if rollVec.Y < 0 {
		slope := ch.Ground.Normal.Normalize().Dot(cp.Vector{X: float64(rt.Dir)})
		addition := slope * r.config.MaxAddition * s.dt
		rt.Remaining = min(rt.Remaining+addition, r.config.Duration)
	}

	rt.Remaining -= s.dt
	if rt.Remaining <= 0 {
		r.Stop(s)
	}
}

// Stop ends the roll and restores the normal collider. If the normal
// collider overlaps geometry the roll is forced on for a short interval.
func (r *RollSystem) Stop(s *stepState) {
	rt := &s.ch.Roll
	rt.Remaining = 0
	rt.Forced = false
	if !rt.Shrunk {
		return
	}

	r.collider.SetShrunk(false)
	rt.Shrunk = false
	if !r.collider.Overlapping() {
		s.report.RollEnded = true
		return
	}

	rt.CanRoll = false
	rt.Remaining = r.config.ForcedDuration
	rt.Forced = true
	r.shrink(s)
	s.report.ForcedRoll = true
}

func (r *RollSystem) shrink(s *stepState) {
	if s.ch.Roll.Shrunk {
		return
	}
	r.collider.SetShrunk(true)
	s.ch.Roll.Shrunk = true
}
