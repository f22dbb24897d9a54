// Package state holds the game state of a stage run and the in-memory
// session the character controller reports to.
package state

// GameState is where a stage run is
type GameState int

const (
	StatePlaying GameState = iota
	StatePaused
	// StageClear is terminal until the stage is reloaded
	StateStageClear
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStageClear:
		return "StageClear"
	default:
		return "Unknown"
	}
}

// Simulates reports whether physics steps run in this state
func (s GameState) Simulates() bool {
	return s == StatePlaying
}

// TogglePause returns the state a pause press leads to. ok is false when
// the press does nothing.
func (s GameState) TogglePause() (next GameState, ok bool) {
	switch s {
	case StatePlaying:
		return StatePaused, true
	case StatePaused:
		return StatePlaying, true
	default:
		return s, false
	}
}
