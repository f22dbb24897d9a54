package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

const testDT = 0.02

func createTestControllerConfig() *config.ControllerConfig {
	return &config.ControllerConfig{
		Display: config.DisplayConfig{ScreenWidth: 640, ScreenHeight: 256, Scale: 2, Framerate: 60},
		Physics: config.PhysicsSettings{TickRate: 50, MaxStepsPerFrame: 5, Gravity: 30, Iterations: 10},
		Movement: config.MovementConfig{
			RunAccel:  20,
			MaxRunVel: 7,
		},
		Jump: config.JumpConfig{Velocity: 14, SnapDistance: 0.5},
		WallJump: config.WallJumpConfig{
			Velocity:  10.5,
			MinFactor: 0.5,
			Duration:  0.5,
		},
		Roll: config.RollConfig{
			Velocity:       14,
			Duration:       1,
			MaxAddition:    5,
			JumpVelocity:   9.333333,
			HeightFactor:   0.5,
			ForcedDuration: 0.1,
		},
		Contact:   config.ContactConfig{GroundEpsilon: 1e-4, WallEpsilon: 1e-4, OverlapSlop: 0.02},
		Animation: config.AnimationConfig{FrameTime: 0.1, RunFrames: 2, RollFrames: 2},
		Character: config.CharacterConfig{Width: 0.8, Height: 1.6, Mass: 1},
	}
}

// fakeBody is a physics body that echoes committed velocity back as the
// next step's velocity.
type fakeBody struct {
	vel      cp.Vector
	contacts []entity.Contact
	triggers []entity.Trigger
	released []entity.Trigger

	castHit    float64
	castNormal cp.Vector
	castOK     bool
	casts      int

	shrunk  bool
	swaps   int
	blocked bool

	offset  cp.Vector
	commits int
	resetAt *cp.Vector
}

func (b *fakeBody) CastShape(dir cp.Vector, dist float64) (float64, cp.Vector, bool) {
	b.casts++
	if !b.castOK || b.castHit > dist {
		return 0, cp.Vector{}, false
	}
	return b.castHit, b.castNormal, true
}

func (b *fakeBody) SetShrunk(shrunk bool) {
	if b.shrunk != shrunk {
		b.swaps++
	}
	b.shrunk = shrunk
}

// Overlapping reports a collision only for the normal collider
func (b *fakeBody) Overlapping() bool {
	return b.blocked && !b.shrunk
}

func (b *fakeBody) Velocity() cp.Vector { return b.vel }
func (b *fakeBody) Contacts() []entity.Contact { return b.contacts }
func (b *fakeBody) Triggers() []entity.Trigger { return b.triggers }
func (b *fakeBody) Release(t entity.Trigger) { b.released = append(b.released, t) }

func (b *fakeBody) Commit(velocity, offset cp.Vector) {
	b.vel = velocity
	b.offset = offset
	b.commits++
	b.triggers = nil
}

func (b *fakeBody) Reset(position cp.Vector) {
	b.resetAt = &position
	b.vel = cp.Vector{}
	b.shrunk = false
}

// fakeService records collaborator notifications
type fakeService struct {
	paused   bool
	toggles  int
	pickups  []entity.Trigger
	huds     []entity.Trigger
	attempts []entity.Trigger
	openDoor bool
}

func (s *fakeService) TogglePause() {
	s.paused = !s.paused
	s.toggles++
}

func (s *fakeService) Paused() bool { return s.paused }

func (s *fakeService) CollectPickup(t entity.Trigger) { s.pickups = append(s.pickups, t) }

func (s *fakeService) ShowDoorHUD(t entity.Trigger) { s.huds = append(s.huds, t) }

func (s *fakeService) TryOpenDoor(t entity.Trigger) bool {
	s.attempts = append(s.attempts, t)
	return s.openDoor
}

func newTestController(t *testing.T) (*Controller, *fakeBody, *fakeService) {
	t.Helper()
	body := &fakeBody{}
	svc := &fakeService{}
	c, err := NewController(createTestControllerConfig(), body, svc, nil)
	require.NoError(t, err)
	return c, body, svc
}

func groundContact(id entity.BodyID) entity.Contact {
	return entity.Contact{Body: id, Normal: cp.Vector{X: 0, Y: 1}}
}

func ceilingContact(id entity.BodyID) entity.Contact {
	return entity.Contact{Body: id, Normal: cp.Vector{X: 0, Y: -1}}
}

// wallContact returns a contact with a wall on the given side of the
// character: -1 left, +1 right.
func wallContact(id entity.BodyID, side int) entity.Contact {
	return entity.Contact{Body: id, Normal: cp.Vector{X: float64(-side), Y: 0}}
}

func bounceContact(id entity.BodyID, normal cp.Vector) entity.Contact {
	return entity.Contact{Body: id, Normal: normal, Kind: entity.ContactBounce}
}

// newStepState builds the scratch state for model-level tests
func newStepState(ch *entity.Character) (*stepState, *StepReport) {
	report := &StepReport{}
	return &stepState{ch: ch, dt: testDT, report: report}, report
}
