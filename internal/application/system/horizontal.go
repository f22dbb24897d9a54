package system

import (
	"math"

	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// HorizontalModel handles running: acceleration, reversal snap and the
// input-proportional speed cap.
type HorizontalModel struct {
	config config.MovementConfig
}

// NewHorizontalModel creates a new horizontal model
func NewHorizontalModel(cfg config.MovementConfig) HorizontalModel {
	return HorizontalModel{config: cfg}
}

// Apply updates horizontal velocity from the input axis
func (m HorizontalModel) Apply(s *stepState) {
	ch := s.ch
	ch.ShouldStand = false

	if s.axis == 0 {
		s.vel.X = 0
		ch.ShouldStand = true
		return
	}

	dir := sign(s.axis)
	if s.vel.X != 0 && dir != sign(s.vel.X) {
		// no sliding when reversing
		s.vel.X = 0
		ch.ShouldStand = true
	} else {
		s.vel.X += m.config.RunAccel * float64(dir) * s.dt
		speedCap := math.Abs(s.axis) * m.config.MaxRunVel
		s.vel.X = clamp(s.vel.X, -speedCap, speedCap)
	}

	if ch.Walljump.Remaining <= 0 {
		ch.Walljump.Push = false
	}
	if !ch.Roll.Rolling() {
		ch.Roll.Dir = dir
	}
}
