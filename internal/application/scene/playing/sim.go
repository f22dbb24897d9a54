package playing

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/younwookim/starroll/internal/application/clock"
	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/state"
	"github.com/younwookim/starroll/internal/application/system"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
	"github.com/younwookim/starroll/internal/infrastructure/physics"
)

var _ system.Body = (*physics.CharacterBody)(nil)

// FrameResult summarizes one sampled frame
type FrameResult struct {
	Frame     int
	Steps     []system.StepReport
	Respawned bool
	Reloaded  bool
}

// Sim drives the physics world, the character controller and the game
// session from sampled input frames. It has no rendering or window
// dependency, so recordings can be re-simulated headlessly.
type Sim struct {
	cfg      *config.ControllerConfig
	stageCfg *config.StageConfig
	logger   *log.Logger

	stage      *entity.Stage
	world      *physics.World
	body       *physics.CharacterBody
	controller *system.Controller
	session    *state.Session
	clock      *clock.Accumulator

	frames   int
	respawns int
}

// NewSim builds a simulation of stageCfg tuned by cfg
func NewSim(cfg *config.ControllerConfig, stageCfg *config.StageConfig, logger *log.Logger) (*Sim, error) {
	if cfg == nil || stageCfg == nil {
		return nil, fmt.Errorf("sim: missing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Sim{
		cfg:     cfg,
		logger:  logger,
		session: state.NewSession(logger.WithPrefix("session")),
		clock:   clock.NewAccumulator(cfg.Physics.TickRate, cfg.Physics.MaxStepsPerFrame),
	}
	if err := s.load(stageCfg); err != nil {
		return nil, err
	}
	return s, nil
}

// load builds a fresh world and controller for stageCfg. The previous
// ones stay in place when loading fails.
func (s *Sim) load(stageCfg *config.StageConfig) error {
	stage, err := system.LoadStage(stageCfg)
	if err != nil {
		return err
	}

	world := physics.NewWorld(stage, s.cfg.Physics, s.logger.WithPrefix("physics"))
	body := world.AddCharacter(s.cfg)
	controller, err := system.NewController(s.cfg, body, s.session, s.logger.WithPrefix("controller"))
	if err != nil {
		return fmt.Errorf("load stage %q: %w", stageCfg.ID, err)
	}

	s.stageCfg = stageCfg
	s.stage = stage
	s.world = world
	s.body = body
	s.controller = controller
	s.session.Reset()
	s.clock.Reset()
	controller.Reset(stage.Spawn)
	return nil
}

// Frame samples one frame of input and runs the physics steps owed for dt
func (s *Sim) Frame(in system.InputState, dt float64) FrameResult {
	res := FrameResult{Frame: s.frames}
	s.frames++

	if in.ResetPressed {
		if err := s.load(s.stageCfg); err != nil {
			s.logger.Error("stage reload failed", "err", err)
		} else {
			res.Reloaded = true
			s.logger.Info("stage reloaded", "stage", s.stageCfg.ID)
		}
	}

	s.controller.Sample(in)

	n := s.clock.Advance(dt)
	step := s.clock.Step()
	for range n {
		if s.session.Paused() {
			break
		}
		s.world.Step(step)
		res.Steps = append(res.Steps, s.controller.Step(step))

		if s.body.Position().Y < s.stage.KillHeight {
			s.respawn()
			res.Respawned = true
		}
	}
	if s.session.Paused() {
		s.clock.Reset()
	}

	s.session.Tick(dt)
	return res
}

func (s *Sim) respawn() {
	s.respawns++
	s.controller.Reset(s.stage.Spawn)
	s.logger.Info("respawn", "count", s.respawns)
}

// Reconfigure applies new tuning. Character size changes take effect on
// the next stage load.
func (s *Sim) Reconfigure(cfg *config.ControllerConfig) error {
	if err := s.controller.Reconfigure(cfg); err != nil {
		return err
	}
	if cfg.Physics.TickRate != s.cfg.Physics.TickRate || cfg.Physics.MaxStepsPerFrame != s.cfg.Physics.MaxStepsPerFrame {
		s.clock = clock.NewAccumulator(cfg.Physics.TickRate, cfg.Physics.MaxStepsPerFrame)
	}
	if cfg.Character != s.cfg.Character {
		s.logger.Info("character size changes apply on the next stage load")
	}
	s.cfg = cfg
	return nil
}

// LoadStage swaps in a new stage and resets progress
func (s *Sim) LoadStage(stageCfg *config.StageConfig) error {
	return s.load(stageCfg)
}

// Replay re-simulates every frame of data. visit sees each frame result and
// may stop the run early by returning false. It returns the number of
// frames run.
func (s *Sim) Replay(data *replay.ReplayData, visit func(FrameResult) bool) int {
	r := replay.NewReplayer(*data)
	dt := data.FrameDT()
	n := 0
	for {
		in, ok := r.Next()
		if !ok {
			break
		}
		res := s.Frame(FromReplay(in), dt)
		n++
		if visit != nil && !visit(res) {
			break
		}
	}
	return n
}

func (s *Sim) Config() *config.ControllerConfig {
	return s.cfg
}

func (s *Sim) StageID() string {
	return s.stageCfg.ID
}

func (s *Sim) Stage() *entity.Stage {
	return s.stage
}

func (s *Sim) World() *physics.World {
	return s.world
}

func (s *Sim) Body() *physics.CharacterBody {
	return s.body
}

func (s *Sim) Controller() *system.Controller {
	return s.controller
}

func (s *Sim) Session() *state.Session {
	return s.session
}

// Respawns returns how many times the character fell out and respawned
func (s *Sim) Respawns() int {
	return s.respawns
}

// FromReplay converts a recorded frame to controller input
func FromReplay(in replay.ReplayInput) system.InputState {
	return system.InputState{
		Axis:         in.Axis,
		JumpPressed:  in.JumpPressed,
		RollPressed:  in.RollPressed,
		PausePressed: in.PausePressed,
		ResetPressed: in.ResetPressed,
	}
}
