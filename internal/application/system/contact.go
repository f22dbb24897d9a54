package system

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// Down is the gravity direction of the world
var Down = cp.Vector{X: 0, Y: -1}

// ContactSnapshot is the classification of one body's contacts in one step
type ContactSnapshot struct {
	Ground  bool
	Ceiling bool
	Wall    bool
	// Normals of the first matching contact per category.
	GroundNormal cp.Vector
	WallNormal   cp.Vector
}

// WallSide returns the horizontal position of the wall: -1 left, +1 right
func (s ContactSnapshot) WallSide() int {
	if !s.Wall {
		return 0
	}
	return -int(math.Round(s.WallNormal.X))
}

// ContactEdges are the transitions of one body between two snapshots
type ContactEdges struct {
	Body         entity.BodyID
	GroundEnter  bool
	GroundExit   bool
	CeilingEnter bool
	CeilingExit  bool
	WallEnter    bool
	WallExit     bool
	GroundNormal cp.Vector
	WallSide     int
}

// Any reports whether any edge fired
func (e ContactEdges) Any() bool {
	return e.GroundEnter || e.GroundExit || e.CeilingEnter || e.CeilingExit || e.WallEnter || e.WallExit
}

// DiffContacts compares two snapshots of the same body
func DiffContacts(body entity.BodyID, prev, cur ContactSnapshot) ContactEdges {
	return ContactEdges{
		Body:         body,
		GroundEnter:  cur.Ground && !prev.Ground,
		GroundExit:   !cur.Ground && prev.Ground,
		CeilingEnter: cur.Ceiling && !prev.Ceiling,
		CeilingExit:  !cur.Ceiling && prev.Ceiling,
		WallEnter:    cur.Wall && !prev.Wall,
		WallExit:     !cur.Wall && prev.Wall,
		GroundNormal: cur.GroundNormal,
		WallSide:     cur.WallSide(),
	}
}

// ContactUpdate is the result of classifying one physics step
type ContactUpdate struct {
	Edges []ContactEdges
	// Bounces holds the first contact of every bounce body touched this
	// step but not the previous one.
	Bounces []entity.Contact
}

// ContactClassifier turns raw contact normals into ground/wall/ceiling
// membership and edge-triggered events, keeping one snapshot per body.
type ContactClassifier struct {
	groundEps float64
	wallEps   float64

	prev       map[entity.BodyID]ContactSnapshot
	prevBounce map[entity.BodyID]bool
}

// NewContactClassifier creates a classifier with the given thresholds
func NewContactClassifier(cfg config.ContactConfig) *ContactClassifier {
	return &ContactClassifier{
		groundEps:  cfg.GroundEpsilon,
		wallEps:    cfg.WallEpsilon,
		prev:       make(map[entity.BodyID]ContactSnapshot),
		prevBounce: make(map[entity.BodyID]bool),
	}
}

// Classify categorizes a body's contact normals. ok is false when no normal
// matches any category.
func (c *ContactClassifier) Classify(normals []cp.Vector) (snap ContactSnapshot, ok bool) {
	for _, n := range normals {
		if n.LengthSq() == 0 {
			continue
		}
		n = n.Normalize()
		dot := n.Dot(Down)
		switch {
		case dot < -c.groundEps:
			if !snap.Ground {
				snap.Ground = true
				snap.GroundNormal = n
			}
		case dot > c.groundEps:
			snap.Ceiling = true
		case math.Abs(dot) < c.wallEps:
			if !snap.Wall {
				snap.Wall = true
				snap.WallNormal = n
			}
		}
	}
	return snap, snap.Ground || snap.Ceiling || snap.Wall
}

// Update classifies the contacts of one step and diffs every body against
// its previous snapshot. Bodies missing from contacts exit every category.
func (c *ContactClassifier) Update(contacts []entity.Contact) ContactUpdate {
	var (
		order   []entity.BodyID
		normals = make(map[entity.BodyID][]cp.Vector)
		bounce  = make(map[entity.BodyID]bool)
		out     ContactUpdate
	)

	for _, ct := range contacts {
		if ct.Kind == entity.ContactBounce {
			if !bounce[ct.Body] {
				bounce[ct.Body] = true
				if !c.prevBounce[ct.Body] {
					out.Bounces = append(out.Bounces, ct)
				}
			}
			continue
		}
		if _, seen := normals[ct.Body]; !seen {
			order = append(order, ct.Body)
		}
		normals[ct.Body] = append(normals[ct.Body], ct.Normal)
	}

	next := make(map[entity.BodyID]ContactSnapshot, len(order))
	for _, body := range order {
		prev := c.prev[body]
		snap, ok := c.Classify(normals[body])
		if !ok {
			// degenerate: keep the previous classification
			next[body] = prev
			continue
		}
		next[body] = snap
		if e := DiffContacts(body, prev, snap); e.Any() {
			out.Edges = append(out.Edges, e)
		}
	}

	var gone []entity.BodyID
	for body := range c.prev {
		if _, ok := next[body]; !ok {
			gone = append(gone, body)
		}
	}
	slices.Sort(gone)
	for _, body := range gone {
		if e := DiffContacts(body, c.prev[body], ContactSnapshot{}); e.Any() {
			out.Edges = append(out.Edges, e)
		}
	}

	c.prev = next
	c.prevBounce = bounce
	return out
}

// Reset forgets every snapshot
func (c *ContactClassifier) Reset() {
	c.prev = make(map[entity.BodyID]ContactSnapshot)
	c.prevBounce = make(map[entity.BodyID]bool)
}
