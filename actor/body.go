package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ID identifies a body within one detection run. Ids are supplied by the
// host simulation; the detection system never generates them.
type ID uint64

// Role determines what happens to a body on a positive collision verdict.
type Role int

const (
	// RoleObstacle bodies are immovable; an item colliding with one gets its
	// motion rejected for the step.
	RoleObstacle Role = iota

	// RoleItem bodies are movable; item-item collisions emit an interaction
	// event instead of blocking movement.
	RoleItem
)

func (r Role) String() string {
	switch r {
	case RoleObstacle:
		return "obstacle"
	case RoleItem:
		return "item"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Body associates a convex shape with its requested displacement for the
// current step and its collision role. The role is immutable for the body's
// lifetime inside the detection system; the shape is borrowed read-only.
type Body struct {
	ID     ID
	Shape  *Convex
	Motion *mgl64.VecN // displacement over one step; zero = stationary
	Role   Role

	aabb AABB // cached swept bounds, refreshed each step
}

// NewBody creates a body from a validated shape and its per-step motion.
// A nil motion means stationary. Fails fast with ErrDimensionMismatch when
// the motion's dimension differs from the shape's.
func NewBody(id ID, shape *Convex, motion *mgl64.VecN, role Role) (*Body, error) {
	if motion == nil {
		motion = mgl64.NewVecN(shape.Dim())
	}
	if motion.Size() != shape.Dim() {
		return nil, fmt.Errorf("motion dimension %d for a %dD shape: %w", motion.Size(), shape.Dim(), ErrDimensionMismatch)
	}

	body := &Body{
		ID:     id,
		Shape:  shape,
		Motion: motion,
		Role:   role,
	}
	body.ComputeAABB()

	return body, nil
}

// Dim returns the dimension the body lives in.
func (b *Body) Dim() int {
	return b.Shape.Dim()
}

// ComputeAABB recalculates the cached swept bounding box: the union of the
// shape's bounds at the start and at the end of the step's motion. A fast
// mover therefore cannot slip past the broad phase between endpoints.
func (b *Body) ComputeAABB() {
	base := b.Shape.AABB()
	b.aabb = base.Union(base.Translate(b.Motion))
}

// AABB returns the cached swept bounding box.
func (b *Body) AABB() AABB {
	return b.aabb
}
