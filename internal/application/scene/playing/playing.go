// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/scene"
	"github.com/younwookim/starroll/internal/application/system"
	"github.com/younwookim/starroll/internal/infrastructure/config"
	"golang.org/x/image/colornames"
)

// InputSource yields one sampled input per frame. ok is false once the
// source has nothing more to give.
type InputSource interface {
	Next() (in system.InputState, ok bool)
}

type liveInput struct {
	sys *system.InputSystem
}

func (l liveInput) Next() (system.InputState, bool) {
	return l.sys.GetInput(), true
}

type replayInput struct {
	r *replay.Replayer
}

func (ri replayInput) Next() (system.InputState, bool) {
	in, ok := ri.r.Next()
	if !ok {
		return system.InputState{}, false
	}
	return FromReplay(in), true
}

// Options configures optional scene features
type Options struct {
	// Loader re-reads config files on watcher events.
	Loader *config.Loader
	// Watcher enables hot reload of controller and stage files.
	Watcher *config.Watcher
	// Replay drives the scene from a recording instead of the keyboard.
	Replay *replay.ReplayData
	// Record enables input recording, saved on exit or F5.
	Record bool
	// RecordPath is where the recording goes. Empty names it after the
	// start time.
	RecordPath string
	Logger     *log.Logger
}

var (
	_ scene.Scene    = (*Playing)(nil)
	_ scene.Layouter = (*Playing)(nil)
)

// Playing is the main gameplay scene
type Playing struct {
	sim      *Sim
	input    InputSource
	loader   *config.Loader
	watcher  *config.Watcher
	logger   *log.Logger
	bgColor  color.Color
	screenW  int
	screenH  int
	tileSize int

	inputDone bool
	last      FrameResult

	// Input recording
	recorder       *Recorder
	recordFilename string
}

// New creates a new Playing scene
func New(cfg *config.GameConfig, opts Options) (*Playing, error) {
	if cfg == nil || cfg.Controller == nil || cfg.Stage == nil {
		return nil, fmt.Errorf("playing: missing config")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sim, err := NewSim(cfg.Controller, cfg.Stage, logger)
	if err != nil {
		return nil, err
	}

	p := &Playing{
		sim:            sim,
		loader:         opts.Loader,
		watcher:        opts.Watcher,
		logger:         logger,
		bgColor:        backgroundColor(cfg.Stage.Background.Color),
		screenW:        cfg.Controller.Display.ScreenWidth,
		screenH:        cfg.Controller.Display.ScreenHeight,
		tileSize:       sim.Stage().TileSize,
		recordFilename: opts.RecordPath,
	}

	if opts.Replay != nil {
		p.input = replayInput{r: replay.NewReplayer(*opts.Replay)}
		logger.Info("replaying", "stage", opts.Replay.Stage, "frames", len(opts.Replay.Frames))
	} else {
		p.input = liveInput{sys: system.NewInputSystem()}
	}

	// Initialize recorder if recording is enabled
	if opts.Record {
		start := time.Now()
		p.recorder = NewRecorder(cfg.Stage.ID, cfg.Controller.Display.Framerate, cfg.Controller.Physics.TickRate, start)
		if p.recordFilename == "" {
			p.recordFilename = DefaultFilename(start)
		}
		logger.Info("recording enabled", "path", p.recordFilename)
	}

	return p, nil
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	p.pollWatcher()

	// F5: Save recording manually
	if p.recorder != nil && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveRecording()
	}

	in, ok := p.input.Next()
	if !ok && !p.inputDone {
		p.inputDone = true
		p.logger.Info("input source exhausted", "frame", p.last.Frame)
	}

	// Record input if recording is enabled
	if p.recorder != nil {
		p.recorder.Record(in)
	}

	p.last = p.sim.Frame(in, dt)
	return nil, nil // nil = stay on this scene
}

func (p *Playing) pollWatcher() {
	if p.watcher == nil || p.loader == nil {
		return
	}
	for {
		select {
		case path, ok := <-p.watcher.Events:
			if !ok {
				p.watcher = nil
				return
			}
			p.reload(path)
		case err, ok := <-p.watcher.Errors:
			if !ok {
				p.watcher = nil
				return
			}
			p.logger.Warn("config watcher", "err", err)
		default:
			return
		}
	}
}

// reload applies a changed config file. Files that fail to load or
// validate are logged and ignored.
func (p *Playing) reload(path string) {
	name := filepath.Base(path)
	switch name {
	case "controller.yaml":
		cfg, err := p.loader.LoadController()
		if err != nil {
			p.logger.Warn("controller reload rejected", "err", err)
			return
		}
		if err := p.sim.Reconfigure(cfg); err != nil {
			p.logger.Warn("controller reload rejected", "err", err)
			return
		}
		p.logger.Info("controller reloaded")
	case p.sim.StageID() + ".yaml":
		stageCfg, err := p.loader.LoadStage(p.sim.StageID())
		if err != nil {
			p.logger.Warn("stage reload rejected", "err", err)
			return
		}
		if err := p.sim.LoadStage(stageCfg); err != nil {
			p.logger.Warn("stage reload rejected", "err", err)
			return
		}
		p.tileSize = p.sim.Stage().TileSize
		p.logger.Info("stage reloaded", "stage", stageCfg.ID)
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	if err := p.recorder.Save(p.recordFilename); err != nil {
		p.logger.Error("failed to save recording", "err", err)
		return
	}
	p.logger.Info("recording saved", "path", p.recordFilename, "frames", p.recorder.Len())
}

// Sim returns the simulation behind the scene
func (p *Playing) Sim() *Sim {
	return p.sim
}

// LastFrame returns the result of the most recent Update
func (p *Playing) LastFrame() FrameResult {
	return p.last
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the display size from the controller config
// (implements scene.Layouter)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}

func backgroundColor(name string) color.Color {
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	return colornames.Midnightblue
}
