package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box in an arbitrary dimension.
type AABB struct {
	Min *mgl64.VecN
	Max *mgl64.VecN
}

// Dim returns the dimension of the box.
func (a AABB) Dim() int {
	return a.Min.Size()
}

// ContainsPoint checks if a point is inside the AABB.
func (a AABB) ContainsPoint(point *mgl64.VecN) bool {
	for axis := 0; axis < a.Dim(); axis++ {
		if point.Get(axis) < a.Min.Get(axis) || point.Get(axis) > a.Max.Get(axis) {
			return false
		}
	}

	return true
}

// Overlaps checks if two AABBs overlap.
// Boundaries are inclusive: boxes sharing only a face or corner still
// overlap, which keeps the broad phase sound for boundary contacts.
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on every axis
	for axis := 0; axis < a.Dim(); axis++ {
		if a.Max.Get(axis) < other.Min.Get(axis) || a.Min.Get(axis) > other.Max.Get(axis) {
			return false
		}
	}

	return true
}

// Union returns the smallest AABB covering both boxes.
func (a AABB) Union(other AABB) AABB {
	min := make([]float64, a.Dim())
	max := make([]float64, a.Dim())
	for axis := 0; axis < a.Dim(); axis++ {
		min[axis] = math.Min(a.Min.Get(axis), other.Min.Get(axis))
		max[axis] = math.Max(a.Max.Get(axis), other.Max.Get(axis))
	}

	return AABB{Min: mgl64.NewVecNFromData(min), Max: mgl64.NewVecNFromData(max)}
}

// Translate returns the AABB shifted by offset. A nil offset is a no-op.
func (a AABB) Translate(offset *mgl64.VecN) AABB {
	if offset == nil {
		return a
	}

	return AABB{Min: a.Min.Add(nil, offset), Max: a.Max.Add(nil, offset)}
}
