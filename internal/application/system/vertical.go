package system

import (
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// VerticalModel handles ground snapping, gravity, jumps, wall-jumps and the
// decaying wall-jump push.
type VerticalModel struct {
	gravity   float64
	maxRunVel float64
	jump      config.JumpConfig
	wallJump  config.WallJumpConfig
	roll      config.RollConfig
}

// NewVerticalModel creates a new vertical model
func NewVerticalModel(cfg *config.ControllerConfig) VerticalModel {
	return VerticalModel{
		gravity:   cfg.Physics.Gravity,
		maxRunVel: cfg.Movement.MaxRunVel,
		jump:      cfg.Jump,
		wallJump:  cfg.WallJump,
		roll:      cfg.Roll,
	}
}

// Snap pulls an airborne character with no vertical motion down onto
// ground within the snap distance. The correction is an offset, so
// momentum is unchanged. The surface normal under the feet becomes the
// ground normal.
func (m VerticalModel) Snap(s *stepState, caster ShapeCaster) {
	if s.grounded || s.vel.Y != 0 {
		return
	}
	hit, normal, ok := caster.CastShape(Down, m.jump.SnapDistance)
	if !ok {
		return
	}
	if normal.LengthSq() > 0 {
		s.ch.Ground.Normal = normal.Normalize()
	}
	s.offset = s.offset.Add(Down.Mult(hit))
	s.grounded = true
	s.report.Snapped = true
}

// Integrate resolves grounded jumps, wall-jumps and gravity
func (m VerticalModel) Integrate(s *stepState, roll *RollSystem) {
	ch := s.ch

	if s.grounded && s.vel.Y <= 0 {
		ch.Walljump.Reset()
		if !ch.Roll.Rolling() && !ch.Roll.CanRoll {
			ch.Roll.CanRoll = true
		}
		s.vel.Y = 0
		if s.jump {
			roll.Stop(s)
			s.vel.Y = m.jump.Velocity
			s.jump = false
			s.report.Jump = JumpGround
		}
		return
	}

	if !s.grounded && s.jump && ch.Wall.Active() {
		m.WallJump(s)
	}
	s.vel.Y -= m.gravity * s.dt
}

// WallJump launches the character off its current wall
func (m VerticalModel) WallJump(s *stepState) {
	ch := s.ch
	ch.Walljump.Remaining = m.wallJump.Duration
	ch.Walljump.Dir = ch.Wall.Away()
	ch.Walljump.Push = true
	s.vel.Y = m.jump.Velocity
	s.jump = false
	s.report.Jump = JumpWall
}

// RollCancel turns a jump during a roll into the reduced roll jump
func (m VerticalModel) RollCancel(s *stepState, roll *RollSystem) {
	ch := s.ch
	if !ch.Roll.Rolling() || !s.jump {
		return
	}
	roll.Stop(s)
	ch.Walljump.Reset()
	s.vel.Y = m.roll.JumpVelocity
	s.jump = false
	s.report.Jump = JumpRollCancel
}

// WalljumpPush applies the decaying push away from the departed wall
func (m VerticalModel) WalljumpPush(s *stepState) {
	wj := &s.ch.Walljump
	if !wj.Active() {
		return
	}

	factor := wj.Remaining / m.wallJump.Duration
	if wj.Push {
		factor = max(factor, m.wallJump.MinFactor)
	}
	s.vel.X += m.wallJump.Velocity * float64(wj.Dir) * factor
	s.vel.X = clamp(s.vel.X, -m.maxRunVel, m.maxRunVel)

	if wj.Remaining > 0 {
		wj.Remaining = max(0, wj.Remaining-s.dt)
	}
}
