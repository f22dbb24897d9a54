package entity

import (
	"math"

	"github.com/jakecoffman/cp"
)

// EntityID is a unique identifier for an entity
type EntityID uint32

// BodyID identifies a physics body the character can touch.
// Zero means "no body".
type BodyID uint32

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileSlopeUp   // rises to the right: '/'
	TileSlopeDown // falls to the right: '\'
	TileBounce
)

// Tile represents a single tile in the stage
type Tile struct {
	Type  TileType
	Solid bool
}

// TriggerKind is the kind of a trigger volume
type TriggerKind int

const (
	TriggerPickup TriggerKind = iota
	TriggerDoor
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerPickup:
		return "pickup"
	case TriggerDoor:
		return "door"
	default:
		return "unknown"
	}
}

// Trigger is a non-solid volume that notifies the game-state service
// when the character enters it.
type Trigger struct {
	ID       EntityID
	Kind     TriggerKind
	Category string
	// Required is the number of pickups of Category a door needs to open.
	Required int
}

// Volume places a trigger in world space. Min is the bottom-left corner.
type Volume struct {
	Trigger Trigger
	Min     cp.Vector
	Max     cp.Vector
}

// Stage represents the current stage's tile data.
//
// Tiles are stored top row first, as authored. World space is y-up with one
// unit per tile: tile (tx, ty) occupies [tx, tx+1] x [Height-1-ty, Height-ty].
type Stage struct {
	Name       string
	Width      int
	Height     int
	TileSize   int
	Tiles      [][]Tile
	Spawn      cp.Vector
	KillHeight float64
	Volumes    []Volume
}

// GetTile returns the tile at the given tile coordinates
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileWall, Solid: true}
	}
	return s.Tiles[ty][tx]
}

// TileOrigin returns the world-space bottom-left corner of a tile
func (s *Stage) TileOrigin(tx, ty int) cp.Vector {
	return cp.Vector{X: float64(tx), Y: float64(s.Height - 1 - ty)}
}

// TileAt returns the tile containing the world-space point p
func (s *Stage) TileAt(p cp.Vector) Tile {
	tx := int(math.Floor(p.X))
	ty := s.Height - 1 - int(math.Floor(p.Y))
	return s.GetTile(tx, ty)
}

// IsSolidAt checks if the tile containing the world-space point is solid
func (s *Stage) IsSolidAt(p cp.Vector) bool {
	return s.TileAt(p).Solid
}
