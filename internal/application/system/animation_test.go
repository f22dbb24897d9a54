package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/starroll/internal/domain/entity"
)

func TestDeriveAnimation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ch *entity.Character)
		vel   cp.Vector
		want  entity.AnimState
	}{
		{
			name:  "rolling wins",
			setup: func(ch *entity.Character) { ch.Roll.Remaining = 0.2 },
			vel:   cp.Vector{X: 3, Y: 5},
			want:  entity.AnimRoll,
		},
		{
			name: "airborne",
			vel:  cp.Vector{X: 2, Y: -1},
			want: entity.AnimJump,
		},
		{
			name:  "sliding on a right wall while moving right",
			setup: func(ch *entity.Character) { ch.Wall = entity.WallContact{Body: 1, Side: 1} },
			vel:   cp.Vector{X: 1, Y: -1},
			want:  entity.AnimWallSlide,
		},
		{
			name:  "sliding on a wall with no horizontal speed",
			setup: func(ch *entity.Character) { ch.Wall = entity.WallContact{Body: 1, Side: -1} },
			vel:   cp.Vector{Y: -2},
			want:  entity.AnimWallSlide,
		},
		{
			name:  "moving away from the wall jumps",
			setup: func(ch *entity.Character) { ch.Wall = entity.WallContact{Body: 1, Side: -1} },
			vel:   cp.Vector{X: 4, Y: 3},
			want:  entity.AnimJump,
		},
		{
			name:  "standing",
			setup: func(ch *entity.Character) { ch.ShouldStand = true },
			want:  entity.AnimStand,
		},
		{
			name: "running",
			vel:  cp.Vector{X: 4},
			want: entity.AnimRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := entity.NewCharacter(0.1)
			if tt.setup != nil {
				tt.setup(&ch)
			}

			assert.Equal(t, tt.want, DeriveAnimation(&ch, tt.vel))
		})
	}
}

func TestAnimator_Advance(t *testing.T) {
	cfg := createTestControllerConfig()
	a := NewAnimator(cfg.Animation)

	t.Run("run frames wrap", func(t *testing.T) {
		anim := entity.Animation{State: entity.AnimRun, FrameTime: 0.1}
		var frames []int
		for i := 0; i < 20; i++ {
			anim = a.Advance(anim, entity.AnimRun, 0.02)
			frames = append(frames, anim.Frame)
		}

		assert.Contains(t, frames, 0)
		assert.Contains(t, frames, 1)
		assert.NotContains(t, frames, 2)
	})

	t.Run("frame advances after its duration", func(t *testing.T) {
		anim := entity.Animation{State: entity.AnimRoll, FrameTime: 0.1}

		anim = a.Advance(anim, entity.AnimRoll, 0.06)
		assert.Equal(t, 0, anim.Frame)
		anim = a.Advance(anim, entity.AnimRoll, 0.06)
		assert.Equal(t, 1, anim.Frame)
		assert.Equal(t, 0.1, anim.FrameTime)
	})

	t.Run("switching state resets the frame", func(t *testing.T) {
		anim := entity.Animation{State: entity.AnimRun, Frame: 1, FrameTime: 0.01}

		anim = a.Advance(anim, entity.AnimRoll, 0.02)

		assert.Equal(t, entity.AnimRoll, anim.State)
		assert.Equal(t, 0, anim.Frame)
		assert.InDelta(t, 0.08, anim.FrameTime, 1e-12)
	})

	t.Run("static states stay on frame zero", func(t *testing.T) {
		anim := entity.Animation{State: entity.AnimJump, FrameTime: 0.1}

		for i := 0; i < 10; i++ {
			anim = a.Advance(anim, entity.AnimJump, 0.05)
		}

		assert.Equal(t, 0, anim.Frame)
		assert.Equal(t, 0.1, anim.FrameTime)
	})
}
