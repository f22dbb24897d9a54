// Package game provides the ebiten.Game that hosts the active scene and
// handles scene transitions.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/starroll/internal/application/scene"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
	frames  int
	closed  bool
}

// New creates a new Game with the given initial scene. Frames are sampled
// at the display framerate. The initial scene's OnEnter is called
// immediately.
func New(initialScene scene.Scene, display config.DisplayConfig) *Game {
	framerate := display.Framerate
	if framerate <= 0 {
		framerate = 60
	}
	g := &Game{
		current: initialScene,
		screenW: display.ScreenWidth,
		screenH: display.ScreenHeight,
		dt:      1.0 / float64(framerate),
	}
	g.current.OnEnter()
	return g
}

// Update samples one frame on the current scene and handles scene
// transitions.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	if g.closed {
		return ebiten.Termination
	}

	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}
	g.frames++

	// Handle scene transition
	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the game's logical screen dimensions. A scene with its own
// Layout decides.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if l, ok := g.current.(scene.Layouter); ok {
		return l.Layout(outsideWidth, outsideHeight)
	}
	return g.screenW, g.screenH
}

// SetDT sets the frame duration passed to scenes.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

// DT returns the frame duration passed to scenes
func (g *Game) DT() float64 {
	return g.dt
}

// Frames returns the number of frames sampled
func (g *Game) Frames() int {
	return g.frames
}

// Current returns the active scene
func (g *Game) Current() scene.Scene {
	return g.current
}

// Close exits the current scene and makes the next Update end the run.
// Safe to call more than once.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.current.OnExit()
}
