package system

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// Controller is the step orchestrator of one character. Sample runs on the
// sampling clock, Step on the fixed physics clock.
type Controller struct {
	config *config.ControllerConfig
	body   Body
	svc    GameService
	logger *log.Logger

	state      entity.Character
	queue      CommandQueue
	classifier *ContactClassifier
	horizontal HorizontalModel
	vertical   VerticalModel
	roll       *RollSystem
	animator   Animator
	steps      int
}

// NewController creates a controller driving body. The config is validated
// here; a nil logger discards output.
func NewController(cfg *config.ControllerConfig, body Body, svc GameService, logger *log.Logger) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("controller: nil config")
	}
	if body == nil {
		return nil, errors.New("controller: nil body")
	}
	if svc == nil {
		return nil, errors.New("controller: nil game service")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		body:   body,
		svc:    svc,
		logger: logger,
		state:  entity.NewCharacter(cfg.Animation.FrameTime),
	}
	c.configure(cfg)
	return c, nil
}

func (c *Controller) configure(cfg *config.ControllerConfig) {
	c.config = cfg
	c.classifier = NewContactClassifier(cfg.Contact)
	c.horizontal = NewHorizontalModel(cfg.Movement)
	c.vertical = NewVerticalModel(cfg)
	c.roll = NewRollSystem(cfg.Roll, c.body)
	c.animator = NewAnimator(cfg.Animation)
}

// Reconfigure swaps in new tuning, keeping the character state.
// Contact snapshots are kept as well.
func (c *Controller) Reconfigure(cfg *config.ControllerConfig) error {
	if cfg == nil {
		return errors.New("controller: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	classifier := c.classifier
	c.configure(cfg)
	c.classifier.prev = classifier.prev
	c.classifier.prevBounce = classifier.prevBounce
	return nil
}

// Sample feeds one frame of input. Pause edges go straight to the game
// service; jump and roll are latched unless the game is paused.
func (c *Controller) Sample(in InputState) {
	if in.PausePressed {
		c.svc.TogglePause()
		c.logger.Debug("pause toggled", "paused", c.svc.Paused())
	}
	c.queue.SetAxis(in.Axis)
	if c.svc.Paused() {
		return
	}
	if in.JumpPressed {
		c.queue.RequestJump()
	}
	if in.RollPressed {
		c.queue.RequestRoll()
	}
}

// Queue exposes the command queue for the sampling clock
func (c *Controller) Queue() *CommandQueue {
	return &c.queue
}

// Step runs one fixed physics step over the contacts of the previous
// space step and commits the result to the body.
func (c *Controller) Step(dt float64) StepReport {
	cmds := c.queue.Peek()
	report := StepReport{Step: c.steps}
	s := &stepState{
		ch:     &c.state,
		vel:    c.body.Velocity(),
		jump:   cmds.Jump,
		roll:   cmds.Roll,
		axis:   cmds.Axis,
		dt:     dt,
		report: &report,
	}

	c.handleTriggers()

	update := c.classifier.Update(c.body.Contacts())
	c.handleBounces(s, update.Bounces)
	c.applyEdges(s, update.Edges)
	report.Edges = update.Edges
	s.grounded = c.state.Ground.Grounded()

	c.horizontal.Apply(s)
	c.vertical.Snap(s, c.body)
	c.vertical.Integrate(s, c.roll)
	c.vertical.RollCancel(s, c.roll)
	c.vertical.WalljumpPush(s)
	c.roll.Start(s)
	c.roll.Apply(s)

	anim := DeriveAnimation(&c.state, s.vel)
	c.state.Anim = c.animator.Advance(c.state.Anim, anim, dt)
	if s.vel.X != 0 {
		c.state.Motion.Facing = sign(s.vel.X)
	}
	c.state.Motion.Velocity = s.vel
	c.state.Motion.Offset = s.offset
	c.body.Commit(s.vel, s.offset)

	c.queue.Clear()
	c.steps++

	report.Grounded = s.grounded
	report.Velocity = s.vel
	report.Offset = s.offset
	report.Anim = anim
	c.logStep(report)
	return report
}

func (c *Controller) handleTriggers() {
	for _, t := range c.body.Triggers() {
		switch t.Kind {
		case entity.TriggerPickup:
			c.logger.Debug("pickup", "id", t.ID, "category", t.Category)
			c.svc.CollectPickup(t)
			c.body.Release(t)
		case entity.TriggerDoor:
			c.svc.ShowDoorHUD(t)
			opened := c.svc.TryOpenDoor(t)
			c.logger.Debug("door", "id", t.ID, "opened", opened)
			if opened {
				c.body.Release(t)
			}
		}
	}
}

// handleBounces reflects the approach velocity off the first newly touched
// bounce pad and launches the character upward.
func (c *Controller) handleBounces(s *stepState, bounces []entity.Contact) {
	if len(bounces) == 0 {
		return
	}
	n := bounces[0].Normal.Normalize()
	prev := c.state.Motion.Velocity
	reflected := prev.Sub(n.Mult(2 * prev.Dot(n)))
	reflected.Y = c.config.Jump.Velocity

	if c.state.Roll.Rolling() && reflected.X*prev.X < 0 {
		c.state.Roll.Dir = -c.state.Roll.Dir
	}
	s.vel = reflected
	s.report.Bounced = true
	c.logger.Debug("bounce", "body", bounces[0].Body, "vx", reflected.X)
}

// applyEdges applies contact transitions in classification order. Only the
// first ground and first wall enter of a step are retained.
func (c *Controller) applyEdges(s *stepState, edges []ContactEdges) {
	ch := &c.state
	groundSet, wallSet := false, false

	for _, e := range edges {
		if e.GroundEnter {
			ch.Ground.Add(e.Body)
			if !groundSet {
				ch.Ground.Normal = e.GroundNormal
				groundSet = true
			}
			c.logger.Debug("ground enter", "body", e.Body)
		}
		if e.CeilingEnter {
			s.vel.Y = 0
			c.logger.Debug("ceiling enter", "body", e.Body)
		}
		if e.WallEnter && !wallSet {
			ch.Wall = entity.WallContact{Body: e.Body, Side: e.WallSide}
			ch.Walljump.Reset()
			c.roll.Stop(s)
			wallSet = true
			c.logger.Debug("wall enter", "body", e.Body, "side", e.WallSide)
		}

		if e.GroundExit {
			ch.Ground.Remove(e.Body)
			c.logger.Debug("ground exit", "body", e.Body)
		}
		if e.WallExit && ch.Wall.Body == e.Body {
			ch.Wall = entity.WallContact{}
			c.logger.Debug("wall exit", "body", e.Body)
		}
	}
}

func (c *Controller) logStep(r StepReport) {
	switch {
	case r.ForcedRoll:
		c.logger.Debug("forced roll", "step", r.Step)
	case r.Jump != JumpNone:
		c.logger.Debug("jump", "step", r.Step, "kind", r.Jump, "vy", r.Velocity.Y)
	}
}

// Reset restores spawn defaults and moves the body to position
func (c *Controller) Reset(position cp.Vector) {
	c.state.Reset(c.config.Animation.FrameTime)
	c.classifier.Reset()
	c.queue.Reset()
	c.body.Reset(position)
	c.logger.Info("character reset", "x", position.X, "y", position.Y)
}

// State returns a copy of the character state
func (c *Controller) State() entity.Character {
	return c.state
}

// Facing returns +1 when facing right, -1 when facing left
func (c *Controller) Facing() int {
	return c.state.Motion.Facing
}

// VelocitySign returns the sign of the committed horizontal velocity
func (c *Controller) VelocitySign() int {
	return sign(c.state.Motion.Velocity.X)
}

// Steps returns the number of physics steps run
func (c *Controller) Steps() int {
	return c.steps
}
