package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/starroll/internal/domain/entity"
)

func TestHorizontalModel_Apply(t *testing.T) {
	cfg := createTestControllerConfig()
	m := NewHorizontalModel(cfg.Movement)

	t.Run("no input stops and stands", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		s.vel = cp.Vector{X: 5, Y: -2}

		m.Apply(s)

		assert.Equal(t, 0.0, s.vel.X)
		assert.Equal(t, -2.0, s.vel.Y)
		assert.True(t, ch.ShouldStand)
	})

	t.Run("accelerates by input sign", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		s.axis = 1

		m.Apply(s)

		assert.InDelta(t, 20*testDT, s.vel.X, 1e-12)
		assert.False(t, ch.ShouldStand)
	})

	t.Run("reversal snaps to zero", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		s.vel.X = 4
		s.axis = -1

		m.Apply(s)

		assert.Equal(t, 0.0, s.vel.X)
		assert.True(t, ch.ShouldStand)
	})

	t.Run("partial input lowers the cap", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		s.vel.X = 6
		s.axis = 0.5

		m.Apply(s)

		assert.Equal(t, 3.5, s.vel.X)
	})

	t.Run("sets roll direction when not rolling", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		s.axis = -0.4

		m.Apply(s)

		assert.Equal(t, -1, ch.Roll.Dir)
	})

	t.Run("keeps roll direction while rolling", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		ch.Roll.Remaining = 0.5
		s, _ := newStepState(&ch)
		s.axis = -1

		m.Apply(s)

		assert.Equal(t, 1, ch.Roll.Dir)
	})

	t.Run("clears residual push once the timer expired", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		ch.Walljump = entity.WalljumpTimer{Push: true, Dir: 1}
		s, _ := newStepState(&ch)
		s.axis = 1

		m.Apply(s)

		assert.False(t, ch.Walljump.Push)
		assert.False(t, ch.Walljump.Active())
	})

	t.Run("keeps residual push while the timer runs", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		ch.Walljump = entity.WalljumpTimer{Remaining: 0.2, Push: true, Dir: 1}
		s, _ := newStepState(&ch)
		s.axis = 1

		m.Apply(s)

		assert.True(t, ch.Walljump.Push)
	})

	t.Run("no input keeps residual push", func(t *testing.T) {
		ch := entity.NewCharacter(0.1)
		ch.Walljump = entity.WalljumpTimer{Push: true, Dir: 1}
		s, _ := newStepState(&ch)

		m.Apply(s)

		assert.True(t, ch.Walljump.Push)
	})
}

func TestHorizontalModel_SpeedNeverExceedsInputCap(t *testing.T) {
	cfg := createTestControllerConfig()
	m := NewHorizontalModel(cfg.Movement)

	for _, axis := range []float64{1, 0.75, 0.5, 0.1, -0.3, -1} {
		ch := entity.NewCharacter(0.1)
		s, _ := newStepState(&ch)
		limit := math.Abs(axis) * cfg.Movement.MaxRunVel

		for i := 0; i < 200; i++ {
			s.axis = axis
			m.Apply(s)
			assert.LessOrEqual(t, math.Abs(s.vel.X), limit+1e-12, "axis %v step %d", axis, i)
		}
		assert.InDelta(t, limit, math.Abs(s.vel.X), 1e-9, "axis %v reaches its cap", axis)
	}
}
