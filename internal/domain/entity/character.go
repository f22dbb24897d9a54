package entity

import "github.com/jakecoffman/cp"

// ContactKind distinguishes ordinary geometry from bounce pads
type ContactKind int

const (
	ContactSolid ContactKind = iota
	ContactBounce
)

// Contact is one contact point reported by the physics step.
// Normal is the outward surface normal of the touched body, pointing
// toward the character.
type Contact struct {
	Body   BodyID
	Normal cp.Vector
	Kind   ContactKind
}

// AnimState is the discrete animation state of the character
type AnimState int

const (
	AnimStand AnimState = iota
	AnimJump
	AnimWallSlide
	AnimRun
	AnimRoll
)

func (a AnimState) String() string {
	switch a {
	case AnimStand:
		return "Stand"
	case AnimJump:
		return "Jump"
	case AnimWallSlide:
		return "WallSlide"
	case AnimRun:
		return "Run"
	case AnimRoll:
		return "Roll"
	default:
		return "Unknown"
	}
}

// Motion is the velocity and pending positional offset of the current step
type Motion struct {
	Velocity cp.Vector
	Offset   cp.Vector
	// Facing is +1 for right, -1 for left
	Facing int
}

// GroundSet tracks the bodies currently classified as ground
type GroundSet struct {
	bodies map[BodyID]struct{}
	Normal cp.Vector
}

// Add inserts a ground body
func (g *GroundSet) Add(id BodyID) {
	if g.bodies == nil {
		g.bodies = make(map[BodyID]struct{})
	}
	g.bodies[id] = struct{}{}
}

// Remove deletes a ground body. Removing an absent body is a no-op.
func (g *GroundSet) Remove(id BodyID) {
	delete(g.bodies, id)
}

// Has reports whether id is a ground body
func (g GroundSet) Has(id BodyID) bool {
	_, ok := g.bodies[id]
	return ok
}

// Len returns the number of ground bodies
func (g GroundSet) Len() int {
	return len(g.bodies)
}

// Grounded reports whether at least one ground body is touching
func (g GroundSet) Grounded() bool {
	return len(g.bodies) > 0
}

// Clear empties the set and resets the normal to straight up
func (g *GroundSet) Clear() {
	g.bodies = nil
	g.Normal = cp.Vector{Y: 1}
}

// WallContact is the single active wall, if any.
// Side is the wall's position relative to the character: -1 left, +1 right.
type WallContact struct {
	Body BodyID
	Side int
}

// Active reports whether a wall is being touched
func (w WallContact) Active() bool {
	return w.Side != 0
}

// Away returns the horizontal direction pointing away from the wall
func (w WallContact) Away() int {
	return -w.Side
}

// WalljumpTimer is the countdown of a wall-jump push
type WalljumpTimer struct {
	Remaining float64
	// Push keeps a floor fraction of the push alive after Remaining hits zero.
	Push bool
	// Dir is the push direction, away from the departed wall.
	Dir int
}

// Active reports whether the push still applies
func (w WalljumpTimer) Active() bool {
	return w.Remaining > 0 || w.Push
}

// Reset clears the timer and the residual push
func (w *WalljumpTimer) Reset() {
	w.Remaining = 0
	w.Push = false
}

// RollTimer is the countdown of a roll
type RollTimer struct {
	Remaining float64
	CanRoll   bool
	// Dir is the intended direction of the next or current roll.
	Dir int
	// Forced is set while a re-roll is imposed because the normal collider
	// did not fit.
	Forced bool
	// Shrunk mirrors the collider shape committed to the body.
	Shrunk bool
}

// Rolling reports whether a roll is in progress
func (r RollTimer) Rolling() bool {
	return r.Remaining > 0
}

// Animation is the derived animation state and frame
type Animation struct {
	State     AnimState
	Frame     int
	FrameTime float64
}

// Character is the complete per-character controller state
type Character struct {
	Motion      Motion
	Ground      GroundSet
	Wall        WallContact
	Walljump    WalljumpTimer
	Roll        RollTimer
	Anim        Animation
	ShouldStand bool
}

// NewCharacter returns the spawn-time state
func NewCharacter(frameTime float64) Character {
	c := Character{}
	c.Reset(frameTime)
	return c
}

// Reset restores spawn defaults: zero timers, empty contact sets
func (c *Character) Reset(frameTime float64) {
	c.Motion = Motion{Facing: 1}
	c.Ground.Clear()
	c.Wall = WallContact{}
	c.Walljump = WalljumpTimer{}
	c.Roll = RollTimer{CanRoll: true, Dir: 1}
	c.Anim = Animation{State: AnimStand, FrameTime: frameTime}
	c.ShouldStand = false
}
