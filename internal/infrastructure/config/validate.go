package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

func positive(errs []error, field string, v float64) []error {
	if v <= 0 {
		errs = append(errs, invalid(field, "must be > 0, got %v", v))
	}
	return errs
}

func positiveInt(errs []error, field string, v int) []error {
	if v <= 0 {
		errs = append(errs, invalid(field, "must be > 0, got %d", v))
	}
	return errs
}

// Validate rejects tuning the controller cannot run with.
// All violations are reported together.
func (c *ControllerConfig) Validate() error {
	var errs []error

	errs = positiveInt(errs, "physics.tickRate", c.Physics.TickRate)
	errs = positiveInt(errs, "physics.maxStepsPerFrame", c.Physics.MaxStepsPerFrame)
	errs = positive(errs, "physics.gravity", c.Physics.Gravity)

	errs = positive(errs, "movement.runAccel", c.Movement.RunAccel)
	errs = positive(errs, "movement.maxRunVel", c.Movement.MaxRunVel)

	errs = positive(errs, "jump.velocity", c.Jump.Velocity)
	errs = positive(errs, "jump.snapDistance", c.Jump.SnapDistance)

	errs = positive(errs, "wallJump.velocity", c.WallJump.Velocity)
	errs = positive(errs, "wallJump.duration", c.WallJump.Duration)
	if c.WallJump.MinFactor < 0 || c.WallJump.MinFactor > 1 {
		errs = append(errs, invalid("wallJump.minFactor", "must be in [0,1], got %v", c.WallJump.MinFactor))
	}

	errs = positive(errs, "roll.velocity", c.Roll.Velocity)
	errs = positive(errs, "roll.duration", c.Roll.Duration)
	errs = positive(errs, "roll.jumpVelocity", c.Roll.JumpVelocity)
	errs = positive(errs, "roll.forcedDuration", c.Roll.ForcedDuration)
	if c.Roll.MaxAddition < 0 {
		errs = append(errs, invalid("roll.maxAddition", "must be >= 0, got %v", c.Roll.MaxAddition))
	}
	if c.Roll.HeightFactor <= 0 || c.Roll.HeightFactor > 1 {
		errs = append(errs, invalid("roll.heightFactor", "must be in (0,1], got %v", c.Roll.HeightFactor))
	}
	if c.Roll.ForcedDuration > c.Roll.Duration {
		errs = append(errs, invalid("roll.forcedDuration", "must not exceed roll.duration"))
	}

	errs = positive(errs, "contact.groundEpsilon", c.Contact.GroundEpsilon)
	errs = positive(errs, "contact.wallEpsilon", c.Contact.WallEpsilon)
	if c.Contact.WallEpsilon > c.Contact.GroundEpsilon {
		errs = append(errs, invalid("contact.wallEpsilon", "must not exceed contact.groundEpsilon"))
	}
	if c.Contact.OverlapSlop < 0 {
		errs = append(errs, invalid("contact.overlapSlop", "must be >= 0, got %v", c.Contact.OverlapSlop))
	}

	errs = positive(errs, "animation.frameTime", c.Animation.FrameTime)
	errs = positiveInt(errs, "animation.runFrames", c.Animation.RunFrames)
	errs = positiveInt(errs, "animation.rollFrames", c.Animation.RollFrames)

	errs = positive(errs, "character.width", c.Character.Width)
	errs = positive(errs, "character.height", c.Character.Height)
	errs = positive(errs, "character.mass", c.Character.Mass)

	return errors.Join(errs...)
}

// Validate checks the stage layout is usable
func (s *StageConfig) Validate() error {
	var errs []error

	errs = positiveInt(errs, "tileSize", s.TileSize)
	if len(s.Layers.Collision) == 0 {
		errs = append(errs, invalid("layers.collision", "must have at least one row"))
	} else {
		width := 0
		for _, row := range s.Layers.Collision {
			width = max(width, len(row))
		}
		if s.PlayerSpawn.X < 0 || s.PlayerSpawn.X >= width ||
			s.PlayerSpawn.Y < 0 || s.PlayerSpawn.Y >= len(s.Layers.Collision) {
			errs = append(errs, invalid("playerSpawn", "(%d,%d) is outside the stage", s.PlayerSpawn.X, s.PlayerSpawn.Y))
		}
	}

	seen := make(map[uint32]bool, len(s.Triggers))
	for i, tr := range s.Triggers {
		field := fmt.Sprintf("triggers[%d]", i)
		if tr.Type != "pickup" && tr.Type != "door" {
			errs = append(errs, invalid(field+".type", "unknown %q", tr.Type))
		}
		if tr.ID == 0 || seen[tr.ID] {
			errs = append(errs, invalid(field+".id", "must be unique and non-zero, got %d", tr.ID))
		}
		seen[tr.ID] = true
		if tr.Rect.W <= 0 || tr.Rect.H <= 0 {
			errs = append(errs, invalid(field+".rect", "must have positive size"))
		}
	}

	return errors.Join(errs...)
}
