// Package scene defines the screens game.Game switches between.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the game. game.Game calls Update once per sampled
// frame and Draw once per rendered frame.
type Scene interface {
	// Update samples one frame lasting dt seconds. A non-nil next scene
	// replaces this one; an error ends the run.
	Update(dt float64) (next Scene, err error)

	Draw(screen *ebiten.Image)

	// OnEnter runs each time the scene becomes current.
	OnEnter()

	// OnExit runs when the scene is replaced or the game closes. Recordings
	// are flushed here.
	OnExit()
}

// Layouter is implemented by scenes that pick their own logical screen
// size. Other scenes use the display size.
type Layouter interface {
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}
