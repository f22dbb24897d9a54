package playing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/state"
	"github.com/younwookim/starroll/internal/application/system"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

const frameDT = 1.0 / 60

// createTestConfig creates the controller tuning shipped with the game
func createTestConfig() *config.ControllerConfig {
	return &config.ControllerConfig{
		Display: config.DisplayConfig{ScreenWidth: 320, ScreenHeight: 240, Scale: 2, Framerate: 60},
		Physics: config.PhysicsSettings{TickRate: 50, MaxStepsPerFrame: 5, Gravity: 30, Iterations: 10},
		Movement: config.MovementConfig{
			RunAccel:  20,
			MaxRunVel: 7,
		},
		Jump:     config.JumpConfig{Velocity: 14, SnapDistance: 0.5},
		WallJump: config.WallJumpConfig{Velocity: 10.5, MinFactor: 0.5, Duration: 0.5},
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

// createTestStage creates a flat 20-wide floor with the spawn resting on it
func createTestStage() *config.StageConfig {
	return &config.StageConfig{
		ID:          "flat",
		Name:        "Flat",
		TileSize:    16,
		PlayerSpawn: config.PositionConfig{X: 2, Y: 2},
		KillHeight:  2,
		Layers: config.LayersConfig{Collision: []string{
			"....................",
			"....................",
			"....................",
			"####################",
		}},
		TileMapping: map[string]config.TileMappingConfig{
			"#": {Type: "wall", Solid: true},
			".": {Type: "empty", Solid: false},
		},
	}
}

func newTestSim(t *testing.T, stage *config.StageConfig) *Sim {
	t.Helper()
	sim, err := NewSim(createTestConfig(), stage, nil)
	require.NoError(t, err)
	return sim
}

func runFrames(sim *Sim, n int, in system.InputState) int {
	steps := 0
	for range n {
		steps += len(sim.Frame(in, frameDT).Steps)
	}
	return steps
}

func TestNewSim(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		_, err := NewSim(nil, createTestStage(), nil)
		assert.Error(t, err)
	})

	t.Run("invalid tuning", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Physics.TickRate = 0

		_, err := NewSim(cfg, createTestStage(), nil)

		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("invalid stage", func(t *testing.T) {
		stage := createTestStage()
		stage.PlayerSpawn.X = 99

		_, err := NewSim(createTestConfig(), stage, nil)

		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("spawns on the floor", func(t *testing.T) {
		sim := newTestSim(t, createTestStage())

		pos := sim.Body().Position()
		assert.InDelta(t, 2.5, pos.X, 1e-9)
		assert.InDelta(t, 1.0, pos.Y, 1e-9)
		assert.Equal(t, state.StatePlaying, sim.Session().State())
	})
}

func TestSim_FixedStepRate(t *testing.T) {
	sim := newTestSim(t, createTestStage())

	steps := runFrames(sim, 60, system.InputState{})

	assert.Equal(t, 50, steps, "one second of frames is one second of steps")
	assert.Equal(t, 50, sim.Controller().Steps())
}

func TestSim_IdleCharacterRests(t *testing.T) {
	sim := newTestSim(t, createTestStage())

	runFrames(sim, 60, system.InputState{})

	pos := sim.Body().Position()
	assert.InDelta(t, 2.5, pos.X, 1e-6)
	assert.InDelta(t, 1.0, pos.Y, 0.05)
	assert.Zero(t, sim.Respawns())
}

func TestSim_RunMovesRight(t *testing.T) {
	sim := newTestSim(t, createTestStage())

	runFrames(sim, 60, system.InputState{Axis: 1})

	assert.Greater(t, sim.Body().Position().X, 4.5)
	assert.Equal(t, 1, sim.Controller().Facing())
	assert.InDelta(t, 1.0, sim.Body().Position().Y, 0.05)
}

func TestSim_JumpAfterRunningIntoWall(t *testing.T) {
	stage := createTestStage()
	stage.Layers.Collision = []string{
		"..........#",
		"..........#",
		"..........#",
		"###########",
	}
	sim := newTestSim(t, stage)

	runFrames(sim, 120, system.InputState{Axis: 1})
	require.InDelta(t, 9.6, sim.Body().Position().X, 0.15, "pressed against the wall")
	require.InDelta(t, 1.0, sim.Body().Position().Y, 0.05, "resting on the floor")

	jumps := 0
	peak := sim.Body().Position().Y
	for i := range 30 {
		in := system.InputState{Axis: 1, JumpPressed: i == 0}
		for _, step := range sim.Frame(in, frameDT).Steps {
			if step.Jump == system.JumpGround {
				jumps++
			}
		}
		peak = max(peak, sim.Body().Position().Y)
	}

	assert.Equal(t, 1, jumps)
	assert.Greater(t, peak, 2.0)
}

func TestSim_RollExtendsDownhill(t *testing.T) {
	stage := createTestStage()
	stage.PlayerSpawn = config.PositionConfig{X: 1, Y: 1}
	stage.Layers.Collision = []string{
		"............",
		"............",
		"##\\.........",
		"###\\........",
		"####\\.......",
		"#####\\......",
		"######\\.....",
		"############",
	}
	stage.TileMapping["\\"] = config.TileMappingConfig{Type: "slopeDown", Solid: true}
	sim := newTestSim(t, stage)
	runFrames(sim, 5, system.InputState{})

	started, extended := false, false
	prev := 0.0
	for i := range 60 {
		in := system.InputState{Axis: 1, RollPressed: i == 0}
		for _, step := range sim.Frame(in, frameDT).Steps {
			started = started || step.RollStarted
		}
		roll := sim.Controller().State().Roll
		if !roll.Rolling() {
			if started {
				break
			}
			continue
		}
		if prev > 0 && roll.Remaining > prev+1e-9 {
			extended = true
		}
		prev = roll.Remaining
	}

	require.True(t, started)
	assert.True(t, extended, "rolling downhill adds to the roll timer")
	assert.Greater(t, sim.Body().Position().X, 7.0, "reached the bottom of the slope")
}

func TestSim_RespawnBelowKillHeight(t *testing.T) {
	stage := createTestStage()
	stage.Layers.Collision = []string{
		"....................",
		"....................",
		"....................",
		"....................",
	}

	sim := newTestSim(t, stage)
	respawned := false
	for range 60 {
		if sim.Frame(system.InputState{}, frameDT).Respawned {
			respawned = true
			break
		}
	}

	require.True(t, respawned)
	assert.Equal(t, 1, sim.Respawns())
	assert.InDelta(t, sim.Stage().Spawn.Y, sim.Body().Position().Y, 0.1)
}

func TestSim_Pause(t *testing.T) {
	sim := newTestSim(t, createTestStage())

	res := sim.Frame(system.InputState{PausePressed: true}, frameDT)
	assert.Empty(t, res.Steps)
	assert.Equal(t, state.StatePaused, sim.Session().State())

	steps := runFrames(sim, 30, system.InputState{Axis: 1})
	assert.Zero(t, steps)
	assert.InDelta(t, 2.5, sim.Body().Position().X, 1e-9)

	sim.Frame(system.InputState{PausePressed: true}, frameDT)
	assert.Equal(t, state.StatePlaying, sim.Session().State())
	assert.NotZero(t, runFrames(sim, 6, system.InputState{}))
}

func TestSim_Pickup(t *testing.T) {
	stage := createTestStage()
	stage.Triggers = []config.TriggerConfig{
		{ID: 1, Type: "pickup", Category: "star", Rect: config.RectConfig{X: 2, Y: 2, W: 1, H: 1}},
	}
	sim := newTestSim(t, stage)
	require.Len(t, sim.World().Volumes(), 1)

	runFrames(sim, 3, system.InputState{})

	assert.Equal(t, 1, sim.Session().Count("star"))
	assert.Empty(t, sim.World().Volumes())
}

func TestSim_DoorClearsStage(t *testing.T) {
	stage := createTestStage()
	stage.Triggers = []config.TriggerConfig{
		{ID: 1, Type: "pickup", Category: "star", Rect: config.RectConfig{X: 2, Y: 2, W: 1, H: 1}},
		{ID: 2, Type: "door", Category: "star", Required: 1, Rect: config.RectConfig{X: 6, Y: 1, W: 1, H: 2}},
	}
	sim := newTestSim(t, stage)

	for range 120 {
		sim.Frame(system.InputState{Axis: 1}, frameDT)
		if sim.Session().State() == state.StateStageClear {
			break
		}
	}

	assert.Equal(t, state.StateStageClear, sim.Session().State())
	assert.True(t, sim.Session().Opened(2))

	// physics holds after the stage is cleared
	assert.Zero(t, runFrames(sim, 10, system.InputState{Axis: 1}))
}

func TestSim_ResetReloads(t *testing.T) {
	stage := createTestStage()
	stage.Triggers = []config.TriggerConfig{
		{ID: 1, Type: "pickup", Category: "star", Rect: config.RectConfig{X: 5, Y: 2, W: 1, H: 1}},
	}
	sim := newTestSim(t, stage)
	runFrames(sim, 60, system.InputState{Axis: 1})
	require.Equal(t, 1, sim.Session().Count("star"))

	res := sim.Frame(system.InputState{ResetPressed: true}, frameDT)

	assert.True(t, res.Reloaded)
	assert.Zero(t, sim.Session().Count("star"))
	assert.Len(t, sim.World().Volumes(), 1)
	assert.InDelta(t, 2.5, sim.Body().Position().X, 1e-6)
}

func TestSim_Reconfigure(t *testing.T) {
	sim := newTestSim(t, createTestStage())

	bad := createTestConfig()
	bad.Roll.HeightFactor = 2
	assert.Error(t, sim.Reconfigure(bad))
	assert.Equal(t, 50, sim.Config().Physics.TickRate)

	faster := createTestConfig()
	faster.Physics.TickRate = 60
	require.NoError(t, sim.Reconfigure(faster))

	assert.Equal(t, 60, runFrames(sim, 60, system.InputState{}))
}

func TestSim_ReplayIsDeterministic(t *testing.T) {
	data := replay.Steady(120, 1)
	data.Frames[30].J = true
	data.Frames[70].R = true

	a := newTestSim(t, createTestStage())
	b := newTestSim(t, createTestStage())

	na := a.Replay(&data, nil)
	nb := b.Replay(&data, nil)

	assert.Equal(t, 120, na)
	assert.Equal(t, na, nb)
	assert.Equal(t, a.Body().Position(), b.Body().Position())
	assert.Equal(t, a.Controller().State().Motion, b.Controller().State().Motion)
}

func TestSim_ReplayStopsEarly(t *testing.T) {
	data := replay.Steady(100, 0)
	sim := newTestSim(t, createTestStage())

	n := sim.Replay(&data, func(res FrameResult) bool {
		return res.Frame < 9
	})

	assert.Equal(t, 10, n)
}

func TestRecorder(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	rec := NewRecorder("flat", 60, 50, start)
	rec.Record(system.InputState{Axis: -1, JumpPressed: true})
	rec.Record(system.InputState{RollPressed: true, ResetPressed: true})
	rec.Stop()
	rec.Record(system.InputState{Axis: 1})

	data := rec.Data()
	require.Equal(t, 2, rec.Len())
	assert.True(t, rec.Stopped())
	assert.Equal(t, replay.FrameInput{F: 0, X: -1, J: true}, data.Frames[0])
	assert.Equal(t, replay.FrameInput{F: 1, R: true, RS: true}, data.Frames[1])
	assert.Equal(t, 50, data.TPS)
	assert.Equal(t, "2026-03-01T12:30:00Z", data.StartTime)
	assert.Equal(t, "replay_20260301_123000.json", DefaultFilename(start))

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, rec.Save(path))

	decoded, err := replay.Load(path)
	require.NoError(t, err)
	assert.Equal(t, data.Frames, decoded.Frames)
	assert.Equal(t, "flat", decoded.Stage)
}

func TestRecorder_SaveEmpty(t *testing.T) {
	rec := NewRecorder("flat", 60, 50, time.Now())

	err := rec.Save(filepath.Join(t.TempDir(), "empty.json"))

	assert.ErrorIs(t, err, ErrEmptyRecording)
}

func TestPlaying_RecordsFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	p, err := New(&config.GameConfig{Controller: createTestConfig(), Stage: createTestStage()}, Options{
		Replay:     ptr(replay.Steady(5, 1)),
		RecordPath: path,
		Record:     true,
	})
	require.NoError(t, err)

	for range 5 {
		_, err := p.Update(frameDT)
		require.NoError(t, err)
	}
	p.OnExit()

	data, err := replay.Load(path)
	require.NoError(t, err)
	assert.Len(t, data.Frames, 5)
	assert.Equal(t, 1.0, data.Frames[4].X)
}

func TestNew(t *testing.T) {
	data := replay.Steady(3, 1)
	p, err := New(&config.GameConfig{Controller: createTestConfig(), Stage: createTestStage()}, Options{Replay: &data})
	require.NoError(t, err)

	w, h := p.Layout(0, 0)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	for range 4 {
		next, err := p.Update(frameDT)
		require.NoError(t, err)
		assert.Nil(t, next)
	}
	assert.True(t, p.inputDone)
	assert.Equal(t, 3, p.LastFrame().Frame)

	_, err = New(&config.GameConfig{}, Options{})
	assert.Error(t, err)
}

func TestBackgroundColor(t *testing.T) {
	assert.NotNil(t, backgroundColor("nonsense"))
	assert.Equal(t, backgroundColor("midnightblue"), backgroundColor(""))
}

func ptr[T any](v T) *T {
	return &v
}
