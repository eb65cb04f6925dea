// Package actor provides the geometric primitives of the detection system:
// convex shapes, bodies with per-step motion, bounding boxes and the
// time-augmented swept construction.
//
// All vectors are mgl64.VecN so that the same types serve 2D, 3D and the
// lifted 3D/4D spaces used for continuous detection.
package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrDegenerateShape reports a hull with too few vertices or zero measure.
	ErrDegenerateShape = errors.New("degenerate convex shape")
	// ErrDimensionMismatch reports inconsistent dimensions between inputs.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// epsRank is the pivot threshold under which a hull direction counts as flat.
const epsRank = 1e-12

// Convex is a convex shape described by its hull vertices in world space.
// The dimension is carried by the vertices and may be 2, 3, or one higher for
// swept (time-augmented) shapes. Detection borrows a Convex read-only; it is
// never mutated after construction.
type Convex struct {
	dim      int
	vertices []*mgl64.VecN
}

// NewConvex builds a convex shape from its hull vertices.
//
// Validation fails fast with ErrDimensionMismatch if the vertices disagree on
// dimension, and with ErrDegenerateShape if there are fewer than dim+1
// vertices or the hull has zero measure (e.g. three collinear points in 2D,
// four coplanar points in 3D). Vertex order is preserved: the support
// function breaks ties by lowest index, so order determines which of several
// equally-extreme vertices is reported.
func NewConvex(vertices ...*mgl64.VecN) (*Convex, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("no vertices: %w", ErrDegenerateShape)
	}

	dim := vertices[0].Size()
	for i, v := range vertices {
		if v.Size() != dim {
			return nil, fmt.Errorf("vertex %d has dimension %d, expected %d: %w", i, v.Size(), dim, ErrDimensionMismatch)
		}
	}

	if len(vertices) < dim+1 {
		return nil, fmt.Errorf("%d vertices cannot span a %dD hull: %w", len(vertices), dim, ErrDegenerateShape)
	}
	if rank := affineRank(vertices, dim); rank < dim {
		return nil, fmt.Errorf("hull has zero measure (affine rank %d in %dD): %w", rank, dim, ErrDegenerateShape)
	}

	return &Convex{dim: dim, vertices: vertices}, nil
}

// Dim returns the dimension of the shape's vertices.
func (c *Convex) Dim() int {
	return c.dim
}

// Vertices returns the hull vertices. The slice is borrowed, not copied;
// callers must not mutate it.
func (c *Convex) Vertices() []*mgl64.VecN {
	return c.vertices
}

// Support returns the vertex maximizing dot(vertex, direction).
// Ties resolve to the lowest vertex index, which keeps GJK termination
// deterministic for repeated queries on the same shape.
func (c *Convex) Support(direction *mgl64.VecN) *mgl64.VecN {
	best := c.vertices[0]
	bestDot := best.Dot(direction)

	for _, v := range c.vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			best = v
			bestDot = d
		}
	}

	return best
}

// AABB computes the axis-aligned bounding box of the hull.
func (c *Convex) AABB() AABB {
	min := make([]float64, c.dim)
	max := make([]float64, c.dim)
	copy(min, c.vertices[0].Raw())
	copy(max, c.vertices[0].Raw())

	for _, v := range c.vertices[1:] {
		for axis, coord := range v.Raw() {
			min[axis] = math.Min(min[axis], coord)
			max[axis] = math.Max(max[axis], coord)
		}
	}

	return AABB{Min: mgl64.NewVecNFromData(min), Max: mgl64.NewVecNFromData(max)}
}

// affineRank computes the rank of the vertex set relative to its first
// vertex, by Gaussian elimination with partial pivoting. A valid dim-D hull
// has affine rank dim.
func affineRank(vertices []*mgl64.VecN, dim int) int {
	rows := make([][]float64, 0, len(vertices)-1)
	base := vertices[0]
	for _, v := range vertices[1:] {
		rows = append(rows, v.Sub(nil, base).Raw())
	}

	rank := 0
	for col := 0; col < dim && rank < len(rows); col++ {
		piv := -1
		for r := rank; r < len(rows); r++ {
			if math.Abs(rows[r][col]) <= epsRank {
				continue
			}
			if piv == -1 || math.Abs(rows[r][col]) > math.Abs(rows[piv][col]) {
				piv = r
			}
		}
		if piv == -1 {
			continue
		}

		rows[rank], rows[piv] = rows[piv], rows[rank]
		for r := rank + 1; r < len(rows); r++ {
			f := rows[r][col] / rows[rank][col]
			for c := col; c < dim; c++ {
				rows[r][c] -= f * rows[rank][c]
			}
		}
		rank++
	}

	return rank
}
