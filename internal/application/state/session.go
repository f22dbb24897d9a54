package state

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/younwookim/starroll/internal/domain/entity"
)

// hudDuration is how long the door prompt stays up after the last touch
const hudDuration = 1.5

// DoorHUD is the contextual prompt shown next to a gated door
type DoorHUD struct {
	Door entity.Trigger
	Have int
	Need int
	Open bool
}

// Session is the in-memory game state of one stage run. It implements the
// controller's game service.
type Session struct {
	logger  *log.Logger
	state   GameState
	overlay bool

	collected map[string]map[entity.EntityID]struct{}
	opened    map[entity.EntityID]struct{}

	hud    DoorHUD
	hudTTL float64
}

// NewSession creates a session in the Playing state
func NewSession(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{logger: logger}
	s.Reset()
	return s
}

// Reset clears all progress for a stage reload
func (s *Session) Reset() {
	s.state = StatePlaying
	s.overlay = false
	s.collected = make(map[string]map[entity.EntityID]struct{})
	s.opened = make(map[entity.EntityID]struct{})
	s.hud = DoorHUD{}
	s.hudTTL = 0
}

// State returns the current game state
func (s *Session) State() GameState {
	return s.state
}

// TogglePause flips between Playing and Paused. It is ignored while an
// overlay is up or the stage is cleared.
func (s *Session) TogglePause() {
	if s.overlay {
		return
	}
	next, ok := s.state.TogglePause()
	if !ok {
		return
	}
	s.state = next
	s.logger.Info("pause", "state", s.state)
}

// Paused reports whether the simulation should hold
func (s *Session) Paused() bool {
	return !s.state.Simulates() || s.overlay
}

// SetOverlay raises or lowers a modal overlay that blocks play and pausing
func (s *Session) SetOverlay(on bool) {
	s.overlay = on
}

// Overlay reports whether a modal overlay is up
func (s *Session) Overlay() bool {
	return s.overlay
}

// CollectPickup counts a pickup toward its category. Each identity counts
// once.
func (s *Session) CollectPickup(t entity.Trigger) {
	ids, ok := s.collected[t.Category]
	if !ok {
		ids = make(map[entity.EntityID]struct{})
		s.collected[t.Category] = ids
	}
	if _, dup := ids[t.ID]; dup {
		return
	}
	ids[t.ID] = struct{}{}
	s.logger.Info("pickup collected", "id", t.ID, "category", t.Category, "count", len(ids))
}

// Count returns the number of distinct pickups collected in category
func (s *Session) Count(category string) int {
	return len(s.collected[category])
}

// ShowDoorHUD raises the prompt for door
func (s *Session) ShowDoorHUD(door entity.Trigger) {
	_, open := s.opened[door.ID]
	s.hud = DoorHUD{
		Door: door,
		Have: s.Count(door.Category),
		Need: door.Required,
		Open: open,
	}
	s.hudTTL = hudDuration
}

// HUD returns the door prompt, if visible
func (s *Session) HUD() (DoorHUD, bool) {
	return s.hud, s.hudTTL > 0
}

// TryOpenDoor opens door once enough pickups of its category are held.
// Opening a door clears the stage.
func (s *Session) TryOpenDoor(door entity.Trigger) bool {
	if _, ok := s.opened[door.ID]; ok {
		return true
	}
	if s.Count(door.Category) < door.Required {
		return false
	}
	s.opened[door.ID] = struct{}{}
	if s.hud.Door.ID == door.ID {
		s.hud.Open = true
	}
	s.state = StateStageClear
	s.logger.Info("door opened", "id", door.ID, "category", door.Category)
	return true
}

// Opened reports whether door has been opened
func (s *Session) Opened(id entity.EntityID) bool {
	_, ok := s.opened[id]
	return ok
}

// Tick counts the HUD timer down
func (s *Session) Tick(dt float64) {
	if s.hudTTL > 0 {
		s.hudTTL = max(0, s.hudTTL-dt)
	}
}
