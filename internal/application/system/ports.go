package system

import (
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
)

// ShapeCaster sweeps the character's current collider through the world
type ShapeCaster interface {
	// CastShape returns the distance the collider can travel along dir
	// before touching geometry and the surface normal there. ok is false
	// if nothing is hit within dist.
	CastShape(dir cp.Vector, dist float64) (hit float64, normal cp.Vector, ok bool)
}

// Collider swaps the character's collision shape
type Collider interface {
	// SetShrunk switches between the normal and the roll collider.
	// The shape's bottom edge stays in place.
	SetShrunk(shrunk bool)
	// Overlapping reports whether the normal collider penetrates geometry
	// the roll collider does not already touch.
	Overlapping() bool
}

// Body is the physics body driven by the controller
type Body interface {
	ShapeCaster
	Collider

	// Velocity is the body velocity after the last physics step.
	Velocity() cp.Vector
	// Contacts returns the contacts reported by the last physics step.
	Contacts() []entity.Contact
	// Triggers returns the trigger volumes entered during the last physics step.
	Triggers() []entity.Trigger
	// Release removes a trigger volume from the world.
	Release(t entity.Trigger)
	// Commit sets the velocity for the next physics step and nudges the
	// position by offset.
	Commit(velocity, offset cp.Vector)
	// Reset teleports the body, zeroes its velocity and restores the
	// normal collider.
	Reset(position cp.Vector)
}

// GameService is the game-state collaborator notified by the controller
type GameService interface {
	TogglePause()
	Paused() bool
	CollectPickup(t entity.Trigger)
	ShowDoorHUD(t entity.Trigger)
	// TryOpenDoor asks the door to open. It reports whether it did.
	TryOpenDoor(t entity.Trigger) bool
}
