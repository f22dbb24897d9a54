package system

import (
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// DeriveAnimation maps the committed step state to an animation state.
// Priority: Roll, then Jump/WallSlide while moving vertically, then Stand,
// then Run.
func DeriveAnimation(ch *entity.Character, vel cp.Vector) entity.AnimState {
	switch {
	case ch.Roll.Rolling():
		return entity.AnimRoll
	case vel.Y != 0:
		if ch.Wall.Active() && sign(vel.X) != ch.Wall.Away() {
			return entity.AnimWallSlide
		}
		return entity.AnimJump
	case ch.ShouldStand:
		return entity.AnimStand
	default:
		return entity.AnimRun
	}
}

// Animator advances animation frames on a fixed countdown
type Animator struct {
	config config.AnimationConfig
}

// NewAnimator creates a new animator
func NewAnimator(cfg config.AnimationConfig) Animator {
	return Animator{config: cfg}
}

// Frames returns the frame count of an animated state, 0 for static ones
func (a Animator) Frames(state entity.AnimState) int {
	switch state {
	case entity.AnimRun:
		return a.config.RunFrames
	case entity.AnimRoll:
		return a.config.RollFrames
	default:
		return 0
	}
}

// Advance moves anim into state and counts its frame timer down by dt.
// Changing state restarts from frame 0.
func (a Animator) Advance(anim entity.Animation, state entity.AnimState, dt float64) entity.Animation {
	if state != anim.State {
		anim = entity.Animation{State: state, FrameTime: a.config.FrameTime}
	}

	n := a.Frames(state)
	if n == 0 {
		anim.Frame = 0
		anim.FrameTime = a.config.FrameTime
		return anim
	}

	anim.FrameTime -= dt
	if anim.FrameTime <= 0 {
		anim.FrameTime = a.config.FrameTime
		anim.Frame = (anim.Frame + 1) % n
	}
	return anim
}
