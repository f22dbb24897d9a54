// Package physics hosts the Chipmunk space the character moves in: merged
// static tile boxes, slope triangles, bounce pads and trigger sensors.
package physics

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeBounce
	collisionTypeTrigger
	collisionTypeCharacter
)

const (
	categorySolid uint = 1 << iota
	categoryTrigger
	categoryCharacter
)

// StaticShape describes one static collision shape for debug drawing
type StaticShape struct {
	ID    entity.BodyID
	Kind  entity.TileType
	Verts []cp.Vector
}

type solidInfo struct {
	id   entity.BodyID
	kind entity.ContactKind
}

// World owns the Chipmunk space and static collision shapes
type World struct {
	stage  *entity.Stage
	space  *cp.Space
	logger *log.Logger

	solids   map[*cp.Shape]solidInfo
	triggers map[*cp.Shape]entity.Volume
	byID     map[entity.EntityID]*cp.Shape
	statics  []StaticShape
	nextID   entity.BodyID

	character *CharacterBody
}

// NewWorld builds a physics world for stage
func NewWorld(stage *entity.Stage, cfg config.PhysicsSettings, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	space := cp.NewSpace()
	space.Iterations = uint(max(1, cfg.Iterations))
	// gravity is integrated by the character controller
	space.SetGravity(cp.Vector{})

	w := &World{
		stage:    stage,
		space:    space,
		logger:   logger,
		solids:   make(map[*cp.Shape]solidInfo),
		triggers: make(map[*cp.Shape]entity.Volume),
		byID:     make(map[entity.EntityID]*cp.Shape),
	}
	w.buildStaticShapes()
	w.buildTriggers()
	w.setupHandlers()
	logger.Debug("physics world built", "stage", stage.Name, "shapes", len(w.statics), "triggers", len(w.triggers))
	return w
}

// Space returns the underlying Chipmunk space
func (w *World) Space() *cp.Space {
	return w.space
}

// Stage returns the stage the world was built from
func (w *World) Stage() *entity.Stage {
	return w.stage
}

// Shapes returns the static shapes for debug drawing
func (w *World) Shapes() []StaticShape {
	return w.statics
}

// Volumes returns the trigger volumes still in the world
func (w *World) Volumes() []entity.Volume {
	out := make([]entity.Volume, 0, len(w.byID))
	for _, v := range w.stage.Volumes {
		if _, ok := w.byID[v.Trigger.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Step advances the simulation and collects the character's contacts
func (w *World) Step(dt float64) {
	if w.character != nil {
		w.character.beginStep()
	}
	w.space.Step(dt)
	if w.character != nil {
		w.character.endStep()
	}
}

func (w *World) allocID() entity.BodyID {
	w.nextID++
	return w.nextID
}

func (w *World) addStatic(shape *cp.Shape, kind entity.TileType, verts []cp.Vector) {
	id := w.allocID()
	contact := entity.ContactSolid
	collisionType := collisionTypeSolid
	if kind == entity.TileBounce {
		contact = entity.ContactBounce
		collisionType = collisionTypeBounce
	}
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionType)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES))
	w.space.AddShape(shape)

	w.solids[shape] = solidInfo{id: id, kind: contact}
	w.statics = append(w.statics, StaticShape{ID: id, Kind: kind, Verts: verts})
}

func (w *World) buildStaticShapes() {
	s := w.stage
	processed := make([][]bool, s.Height)
	for y := range processed {
		processed[y] = make([]bool, s.Width)
	}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if processed[y][x] {
				continue
			}
			tile := s.GetTile(x, y)
			if !tile.Solid {
				processed[y][x] = true
				continue
			}

			origin := s.TileOrigin(x, y)
			switch tile.Type {
			case entity.TileSlopeUp, entity.TileSlopeDown:
				verts := slopeVerts(tile.Type, origin)
				shape := cp.NewPolyShapeRaw(w.space.StaticBody, 3, verts, 0)
				w.addStatic(shape, tile.Type, verts)
				processed[y][x] = true
				continue
			}

			// merge contiguous tiles of the same type into one rectangle,
			// width first, then height
			same := func(tx, ty int) bool {
				t := s.GetTile(tx, ty)
				return !processed[ty][tx] && t.Solid && t.Type == tile.Type
			}
			rw := 1
			for x+rw < s.Width && same(x+rw, y) {
				rw++
			}
			rh := 1
		heightLoop:
			for y+rh < s.Height {
				for xi := x; xi < x+rw; xi++ {
					if !same(xi, y+rh) {
						break heightLoop
					}
				}
				rh++
			}

			bb := cp.BB{
				L: float64(x),
				B: float64(s.Height - y - rh),
				R: float64(x + rw),
				T: float64(s.Height - y),
			}
			shape := cp.NewBox2(w.space.StaticBody, bb, 0)
			w.addStatic(shape, tile.Type, bbVerts(bb))

			for yy := y; yy < y+rh; yy++ {
				for xx := x; xx < x+rw; xx++ {
					processed[yy][xx] = true
				}
			}
		}
	}

	// side and top bounds; the bottom stays open so falls reach the kill height
	width := float64(s.Width)
	height := float64(s.Height)
	bottom := s.KillHeight - 1
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: bottom}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: bottom}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, 0)
		w.addStatic(shape, entity.TileWall, []cp.Vector{seg.a, seg.b})
	}
}

func (w *World) buildTriggers() {
	for _, v := range w.stage.Volumes {
		bb := cp.BB{L: v.Min.X, B: v.Min.Y, R: v.Max.X, T: v.Max.Y}
		shape := cp.NewBox2(w.space.StaticBody, bb, 0)
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeTrigger)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryTrigger, categoryCharacter))
		w.space.AddShape(shape)

		w.triggers[shape] = v
		w.byID[v.Trigger.ID] = shape
	}
}

// release removes a trigger volume from the space
func (w *World) release(t entity.Trigger) {
	shape, ok := w.byID[t.ID]
	if !ok {
		return
	}
	w.space.RemoveShape(shape)
	delete(w.byID, t.ID)
	delete(w.triggers, shape)
	w.logger.Debug("trigger released", "id", t.ID, "kind", t.Kind)
}

func (w *World) setupHandlers() {
	triggerHandler := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeTrigger)
	triggerHandler.UserData = w
	triggerHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil || world.character == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		shape := shapeB
		v, ok := world.triggers[shape]
		if !ok {
			shape = shapeA
			if v, ok = world.triggers[shape]; !ok {
				return true
			}
		}
		if world.character.enter(shape) {
			world.character.entered = append(world.character.entered, v.Trigger)
		}
		return true
	}
	triggerHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*World)
		if !ok || world == nil || world.character == nil {
			return
		}
		shapeA, shapeB := arb.Shapes()
		world.character.leave(shapeA)
		world.character.leave(shapeB)
	}
}

func slopeVerts(kind entity.TileType, o cp.Vector) []cp.Vector {
	if kind == entity.TileSlopeUp {
		return []cp.Vector{
			{X: o.X, Y: o.Y},
			{X: o.X + 1, Y: o.Y},
			{X: o.X + 1, Y: o.Y + 1},
		}
	}
	return []cp.Vector{
		{X: o.X, Y: o.Y},
		{X: o.X + 1, Y: o.Y},
		{X: o.X, Y: o.Y + 1},
	}
}

func bbVerts(bb cp.BB) []cp.Vector {
	return []cp.Vector{
		{X: bb.L, Y: bb.B},
		{X: bb.R, Y: bb.B},
		{X: bb.R, Y: bb.T},
		{X: bb.L, Y: bb.T},
	}
}
