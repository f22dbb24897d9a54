package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// castSkin starts shape casts slightly behind the leading face so a collider
// resting on a surface still reports it
const castSkin = 0.01

// castSamples is the number of rays spread across the leading face
const castSamples = 3

// velocityEpsilon is the smallest velocity component reported to the
// controller. Solver residue below it reads as zero.
const velocityEpsilon = 1e-9

// headroomInset keeps the headroom probe clear of walls the collider rests
// against within the solver's collision slop
const headroomInset = 0.15

// CharacterBody is the character's dynamic body. The body origin sits at the
// feet, bottom center of the collider.
type CharacterBody struct {
	world *World
	body  *cp.Body

	normal  *cp.Shape
	rolled  *cp.Shape
	current *cp.Shape
	// headroom probes the part of the normal collider above the roll
	// collider. It is never added to the space.
	headroom *cp.Shape

	width        float64
	height       float64
	rolledHeight float64
	overlapSlop  float64

	contacts []entity.Contact
	entered  []entity.Trigger
	// inside holds the trigger shapes the current collider overlaps.
	// carried holds those overlapped before a collider swap until the
	// next step, so the new collider does not enter them again.
	inside  map[*cp.Shape]struct{}
	carried map[*cp.Shape]struct{}
}

// AddCharacter creates the character body at the stage spawn point
func (w *World) AddCharacter(cfg *config.ControllerConfig) *CharacterBody {
	mass := cfg.Character.Mass
	if mass <= 0 {
		mass = 1
	}
	body := w.space.AddBody(cp.NewBody(mass, cp.INFINITY))
	body.SetPosition(w.stage.Spawn)
	// the controller integrates gravity itself
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})

	c := &CharacterBody{
		world:        w,
		body:         body,
		width:        cfg.Character.Width,
		height:       cfg.Character.Height,
		rolledHeight: cfg.Character.Height * cfg.Roll.HeightFactor,
		overlapSlop:  cfg.Contact.OverlapSlop,
		inside:       make(map[*cp.Shape]struct{}),
		carried:      make(map[*cp.Shape]struct{}),
	}
	c.normal = c.newShape(c.height)
	c.rolled = c.newShape(c.rolledHeight)
	c.headroom = cp.NewBox2(body, cp.BB{
		L: -c.width/2 + headroomInset,
		B: c.rolledHeight,
		R: c.width/2 - headroomInset,
		T: c.height,
	}, 0)
	c.headroom.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryCharacter, categorySolid))
	c.current = w.space.AddShape(c.normal)

	if w.character != nil {
		w.logger.Warn("replacing character body")
		w.space.RemoveShape(w.character.current)
		w.space.RemoveBody(w.character.body)
	}
	w.character = c
	return c
}

func (c *CharacterBody) newShape(height float64) *cp.Shape {
	half := c.width / 2
	shape := cp.NewBox2(c.body, cp.BB{L: -half, B: 0, R: half, T: height}, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryCharacter, categorySolid|categoryTrigger))
	return shape
}

// Position returns the feet position
func (c *CharacterBody) Position() cp.Vector {
	return c.body.Position()
}

// Size returns the current collider size
func (c *CharacterBody) Size() cp.Vector {
	if c.current == c.rolled {
		return cp.Vector{X: c.width, Y: c.rolledHeight}
	}
	return cp.Vector{X: c.width, Y: c.height}
}

// Shrunk reports whether the roll collider is active
func (c *CharacterBody) Shrunk() bool {
	return c.current == c.rolled
}

func (c *CharacterBody) Velocity() cp.Vector {
	v := c.body.Velocity()
	if math.Abs(v.X) < velocityEpsilon {
		v.X = 0
	}
	if math.Abs(v.Y) < velocityEpsilon {
		v.Y = 0
	}
	return v
}

func (c *CharacterBody) Contacts() []entity.Contact {
	return c.contacts
}

func (c *CharacterBody) Triggers() []entity.Trigger {
	return c.entered
}

func (c *CharacterBody) Release(t entity.Trigger) {
	c.world.release(t)
}

func (c *CharacterBody) Commit(velocity, offset cp.Vector) {
	c.body.SetVelocityVector(velocity)
	if offset.X != 0 || offset.Y != 0 {
		c.body.SetPosition(c.body.Position().Add(offset))
	}
}

func (c *CharacterBody) Reset(position cp.Vector) {
	c.SetShrunk(false)
	c.body.SetPosition(position)
	c.body.SetVelocityVector(cp.Vector{})
	c.contacts = nil
	c.entered = nil
}

// SetShrunk swaps the collider. Both shapes share the bottom edge at the
// body origin, so the feet stay put.
func (c *CharacterBody) SetShrunk(shrunk bool) {
	next := c.normal
	if shrunk {
		next = c.rolled
	}
	if next == c.current {
		return
	}
	for shape := range c.inside {
		c.carried[shape] = struct{}{}
	}
	clear(c.inside)

	space := c.world.space
	space.RemoveShape(c.current)
	c.current = space.AddShape(next)
}

// enter records a trigger overlap and reports whether it is a new entry
func (c *CharacterBody) enter(trigger *cp.Shape) bool {
	if _, ok := c.inside[trigger]; ok {
		return false
	}
	c.inside[trigger] = struct{}{}
	_, carried := c.carried[trigger]
	return !carried
}

func (c *CharacterBody) leave(trigger *cp.Shape) {
	delete(c.inside, trigger)
}

// Overlapping reports whether the normal collider's headroom, the part
// above the roll collider, penetrates solid geometry deeper than the overlap
// slop. Contacts shared with the roll collider (floor, side walls) do not
// count. It is always false while the roll collider is active.
func (c *CharacterBody) Overlapping() bool {
	if c.current != c.normal {
		return false
	}

	overlap := false
	c.world.space.ShapeQuery(c.headroom, func(shape *cp.Shape, points *cp.ContactPointSet) {
		if overlap {
			return
		}
		if _, solid := c.world.solids[shape]; !solid {
			return
		}
		for i := 0; i < points.Count; i++ {
			if points.Points[i].Distance < -c.overlapSlop {
				overlap = true
				return
			}
		}
	})
	return overlap
}

// CastShape sweeps the leading face of the current collider along dir by
// sampling rays across it. It returns the shortest free distance and the
// surface normal at that hit.
func (c *CharacterBody) CastShape(dir cp.Vector, dist float64) (float64, cp.Vector, bool) {
	if dist <= 0 || dir.LengthSq() == 0 {
		return 0, cp.Vector{}, false
	}
	dir = dir.Normalize()
	filter := cp.NewShapeFilter(cp.NO_GROUP, categoryCharacter, categorySolid)

	best := math.Inf(1)
	var normal cp.Vector
	for _, origin := range c.faceSamples(dir) {
		start := origin.Sub(dir.Mult(castSkin))
		end := origin.Add(dir.Mult(dist))
		info := c.world.space.SegmentQueryFirst(start, end, 0, filter)
		if info.Shape == nil {
			continue
		}
		d := info.Alpha*(dist+castSkin) - castSkin
		if d < best {
			best = d
			normal = info.Normal
		}
	}
	if math.IsInf(best, 1) {
		return 0, cp.Vector{}, false
	}
	return max(0, best), normal, true
}

// faceSamples returns points spread across the collider face that leads
// along dir. The corners are inset so rays do not graze adjacent walls.
func (c *CharacterBody) faceSamples(dir cp.Vector) []cp.Vector {
	pos := c.body.Position()
	size := c.Size()
	const inset = 0.02

	var a, b cp.Vector
	if math.Abs(dir.Y) >= math.Abs(dir.X) {
		y := pos.Y
		if dir.Y > 0 {
			y += size.Y
		}
		a = cp.Vector{X: pos.X - size.X/2 + inset, Y: y}
		b = cp.Vector{X: pos.X + size.X/2 - inset, Y: y}
	} else {
		x := pos.X - size.X/2
		if dir.X > 0 {
			x = pos.X + size.X/2
		}
		a = cp.Vector{X: x, Y: pos.Y + inset}
		b = cp.Vector{X: x, Y: pos.Y + size.Y - inset}
	}

	samples := make([]cp.Vector, castSamples)
	for i := range samples {
		t := float64(i) / float64(castSamples-1)
		samples[i] = a.Lerp(b, t)
	}
	return samples
}

func (c *CharacterBody) beginStep() {
	c.contacts = nil
	c.entered = nil
}

func (c *CharacterBody) endStep() {
	clear(c.carried)
	c.collectContacts()
}

// collectContacts records one contact per touching solid arbiter. The
// normal is flipped to point from the touched body toward the character.
func (c *CharacterBody) collectContacts() {
	c.body.EachArbiter(func(arb *cp.Arbiter) {
		shapeA, shapeB := arb.Shapes()
		characterIsA := shapeA == c.current
		other := shapeB
		if !characterIsA {
			other = shapeA
		}
		info, ok := c.world.solids[other]
		if !ok {
			return
		}
		if arb.ContactPointSet().Count == 0 {
			return
		}
		n := arb.Normal()
		if characterIsA {
			n = n.Neg()
		}
		c.contacts = append(c.contacts, entity.Contact{
			Body:   info.id,
			Normal: n,
			Kind:   info.kind,
		})
	})
}
