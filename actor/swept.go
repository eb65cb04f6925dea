package actor

import "github.com/go-gl/mathgl/mgl64"

// Sweep extrudes a shape along a normalized time axis by its motion over one
// step. Every vertex v contributes two lifted vertices: (v, 0) at the start
// of the step and (v+motion, 1) at the end, so the result has twice the
// vertex count and lives one dimension higher.
//
// Two swept shapes intersect exactly when the original shapes meet at some
// instant t in [0,1] of the step, which is what makes boolean GJK on the
// lifted hulls a continuous collision test.
//
// The base shape was validated at construction and the lift preserves full
// affine rank (the time axis always spans), so no re-validation happens here.
func Sweep(shape *Convex, motion *mgl64.VecN) *Convex {
	dim := shape.Dim()
	vertices := make([]*mgl64.VecN, 0, 2*len(shape.vertices))

	for _, v := range shape.vertices {
		start := make([]float64, dim+1)
		copy(start, v.Raw())

		end := make([]float64, dim+1)
		for axis := 0; axis < dim; axis++ {
			end[axis] = v.Get(axis)
			if motion != nil {
				end[axis] += motion.Get(axis)
			}
		}
		end[dim] = 1

		vertices = append(vertices,
			mgl64.NewVecNFromData(start),
			mgl64.NewVecNFromData(end),
		)
	}

	return &Convex{dim: dim + 1, vertices: vertices}
}

// Swept returns the body's shape lifted by its motion for the current step.
// The result is transient: built per narrow-phase query, then discarded.
func (b *Body) Swept() *Convex {
	return Sweep(b.Shape, b.Motion)
}
